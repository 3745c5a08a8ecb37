// Package reservation è il motore di prenotazione dei turni: funzioni pure
// che trasformano uno Shift in ingresso in uno Shift in uscita, senza alcun
// accesso allo store. La scrittura condizionata contro il database è compito
// del repository; qui vivono solo le regole di capienza e di iscrizione.
package reservation

import (
	"fmt"
	"sort"

	"github.com/cri-turni/backend/internal/domain"
)

type Occupant struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
}

type RoleOccupancy struct {
	Role      string     `json:"role"`
	Required  int32      `json:"required"`
	Occupants []Occupant `json:"occupants"`
	// Filled: tutti i posti del ruolo sono occupati.
	Filled bool `json:"filled"`
	// Over: gli occupanti superano i posti richiesti. Può succedere solo se
	// un amministratore riduce la capienza di un ruolo già occupato; va
	// mostrato come "oltre capienza", non come "al completo".
	Over bool `json:"over"`
}

// ComputeRoleOccupancy deriva, per ogni ruolo richiesto dal turno, la lista
// degli occupanti correnti. Un roster assente si comporta come un roster
// vuoto. L'ordine dei ruoli e degli occupanti è deterministico per rendere
// stabile la resa lato client.
func ComputeRoleOccupancy(s *domain.Shift) []RoleOccupancy {
	roles := make([]string, 0, len(s.RequiredRoles))
	for role := range s.RequiredRoles {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	occupancies := make([]RoleOccupancy, 0, len(roles))
	for _, role := range roles {
		occupants := occupantsOf(s, role)
		required := s.RequiredRoles[role]
		occupancies = append(occupancies, RoleOccupancy{
			Role:      role,
			Required:  required,
			Occupants: occupants,
			Filled:    int32(len(occupants)) >= required,
			Over:      int32(len(occupants)) > required,
		})
	}

	return occupancies
}

func occupantsOf(s *domain.Shift, role string) []Occupant {
	occupants := make([]Occupant, 0)
	for userID, p := range s.Participants {
		if p.Role == role {
			occupants = append(occupants, Occupant{UserID: userID, Name: p.Name})
		}
	}

	sort.Slice(occupants, func(i, j int) bool {
		if occupants[i].Name != occupants[j].Name {
			return occupants[i].Name < occupants[j].Name
		}
		return occupants[i].UserID < occupants[j].UserID
	})

	return occupants
}

func countRole(s *domain.Shift, role string) int {
	n := 0
	for _, p := range s.Participants {
		if p.Role == role {
			n++
		}
	}
	return n
}

// CanJoin verifica le precondizioni di iscrizione, nell'ordine: ruolo
// previsto dal turno, posti liberi nel ruolo, utente non già iscritto.
// Restituisce nil solo se valgono tutte e tre. Il chiamante deve rieseguire
// questa verifica al momento della scrittura, non solo al momento della
// selezione: il roster può essere cambiato nel frattempo.
func CanJoin(s *domain.Shift, userID string, role string) error {
	required, ok := s.RequiredRoles[role]
	if !ok {
		return &domain.ValidationError{Reason: fmt.Sprintf("il ruolo %q non è previsto da questo turno", role)}
	}

	occupied := countRole(s, role)
	if int32(occupied) >= required {
		return &domain.CapacityError{Role: role, Required: required, Occupied: occupied}
	}

	if _, ok := s.Participants[userID]; ok {
		return &domain.ConflictError{Reason: "sei già iscritto a questo turno"}
	}

	return nil
}

// Join restituisce un nuovo turno con l'utente iscritto nel ruolo indicato.
// Il turno in ingresso non viene mai modificato. CurrentParticipants è
// ricalcolato dalla dimensione del roster, mai incrementato alla cieca.
func Join(s *domain.Shift, userID string, name string, role string) (*domain.Shift, error) {
	if err := CanJoin(s, userID, role); err != nil {
		return nil, err
	}

	next := cloneShift(s)
	next.Participants[userID] = domain.Participant{Role: role, Name: name}
	next.CurrentParticipants = int32(len(next.Participants))

	return next, nil
}

// Leave restituisce un nuovo turno senza l'utente indicato. L'assenza
// dell'utente dal roster è un errore esplicito, non un successo silenzioso.
func Leave(s *domain.Shift, userID string) (*domain.Shift, error) {
	if _, ok := s.Participants[userID]; !ok {
		return nil, &domain.ConflictError{Reason: "non risulti iscritto a questo turno"}
	}

	next := cloneShift(s)
	delete(next.Participants, userID)
	next.CurrentParticipants = int32(len(next.Participants))

	return next, nil
}

func cloneShift(s *domain.Shift) *domain.Shift {
	next := *s

	next.RequiredRoles = make(map[string]int32, len(s.RequiredRoles))
	for role, required := range s.RequiredRoles {
		next.RequiredRoles[role] = required
	}

	next.Participants = make(map[string]domain.Participant, len(s.Participants))
	for userID, p := range s.Participants {
		next.Participants[userID] = p
	}

	return &next
}
