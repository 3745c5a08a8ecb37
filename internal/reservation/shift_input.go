package reservation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cri-turni/backend/internal/domain"
)

// ShiftInput è la richiesta di creazione o modifica di un turno da parte di
// un amministratore, già decodificata ma non ancora validata.
type ShiftInput struct {
	Title         string
	Date          string
	StartTime     string
	EndTime       string
	RequiredRoles map[string]int32
}

// ValidateShiftInput controlla l'input rispetto alle date configurate
// dell'evento. Gli errori sono tutti ValidationError: nessuna scrittura deve
// essere tentata se l'input non passa di qui.
func ValidateShiftInput(in *ShiftInput, eventDates []string) error {
	if strings.TrimSpace(in.Title) == "" {
		return &domain.ValidationError{Reason: "il titolo del turno è obbligatorio"}
	}

	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return &domain.ValidationError{Reason: fmt.Sprintf("la data %q non è nel formato YYYY-MM-DD", in.Date)}
	}
	if !slices.Contains(eventDates, in.Date) {
		return &domain.ValidationError{Reason: fmt.Sprintf("la data %s non rientra nei giorni dell'evento", in.Date)}
	}

	startTime, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		return &domain.ValidationError{Reason: fmt.Sprintf("l'orario di inizio %q non è nel formato HH:MM", in.StartTime)}
	}
	endTime, err := time.Parse("15:04", in.EndTime)
	if err != nil {
		return &domain.ValidationError{Reason: fmt.Sprintf("l'orario di fine %q non è nel formato HH:MM", in.EndTime)}
	}
	if !endTime.After(startTime) {
		return &domain.ValidationError{Reason: "l'orario di fine deve essere successivo all'orario di inizio"}
	}

	if len(in.RequiredRoles) == 0 {
		return &domain.ValidationError{Reason: "il turno deve richiedere almeno un ruolo"}
	}
	for role, required := range in.RequiredRoles {
		if strings.TrimSpace(role) == "" {
			return &domain.ValidationError{Reason: "il nome di un ruolo non può essere vuoto"}
		}
		if required <= 0 {
			return &domain.ValidationError{Reason: fmt.Sprintf("il ruolo %q deve richiedere almeno una persona", role)}
		}
	}

	return nil
}

// TotalRequired è la capienza complessiva del turno: la somma dei posti di
// tutti i ruoli richiesti.
func TotalRequired(requiredRoles map[string]int32) int32 {
	var total int32
	for _, required := range requiredRoles {
		total += required
	}
	return total
}

// BuildShift costruisce un turno nuovo a partire da un input già validato:
// roster vuoto, contatori coerenti.
func BuildShift(in *ShiftInput) *domain.Shift {
	requiredRoles := make(map[string]int32, len(in.RequiredRoles))
	for role, required := range in.RequiredRoles {
		requiredRoles[role] = required
	}

	return &domain.Shift{
		Title:               in.Title,
		Date:                in.Date,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		RequiredRoles:       requiredRoles,
		Participants:        make(map[string]domain.Participant),
		MaxParticipants:     TotalRequired(requiredRoles),
		CurrentParticipants: 0,
	}
}

// ApplyShiftInput restituisce il turno aggiornato con i nuovi dati, roster
// invariato. Se un ruolo viene ridotto sotto l'occupazione corrente nessuno
// viene rimosso d'ufficio: il ruolo risulterà oltre capienza nelle verifiche
// successive (vedi RoleOccupancy.Over).
func ApplyShiftInput(s *domain.Shift, in *ShiftInput) *domain.Shift {
	next := cloneShift(s)
	next.Title = in.Title
	next.Date = in.Date
	next.StartTime = in.StartTime
	next.EndTime = in.EndTime

	next.RequiredRoles = make(map[string]int32, len(in.RequiredRoles))
	for role, required := range in.RequiredRoles {
		next.RequiredRoles[role] = required
	}
	next.MaxParticipants = TotalRequired(next.RequiredRoles)

	return next
}
