package domain

import "time"

type Participant struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// Shift è un turno dell'evento: un blocco orario in una delle date
// configurate, con uno o più ruoli richiesti ognuno con la propria capienza.
//
// MaxParticipants è sempre la somma di RequiredRoles e CurrentParticipants è
// sempre la dimensione di Participants: entrambi sono contatori denormalizzati
// che il motore di prenotazione mantiene coerenti a ogni mutazione.
type Shift struct {
	ID                  int64                  `json:"id"`
	Title               string                 `json:"title"`
	Date                string                 `json:"date"`      // YYYY-MM-DD
	StartTime           string                 `json:"startTime"` // HH:MM
	EndTime             string                 `json:"endTime"`   // HH:MM
	RequiredRoles       map[string]int32       `json:"requiredRoles"`
	Participants        map[string]Participant `json:"participants"` // chiave: id del profilo
	MaxParticipants     int32                  `json:"maxParticipants"`
	CurrentParticipants int32                  `json:"currentParticipants"`
	CreatedAt           time.Time              `json:"createdAt"`
	Version             int32                  `json:"-"`
}
