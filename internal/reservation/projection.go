package reservation

import "github.com/cri-turni/backend/internal/domain"

// FillFraction è il rapporto iscritti/capienza, usato solo per la barra di
// avanzamento: le decisioni di capienza consultano sempre l'occupazione per
// ruolo, mai questo valore.
func FillFraction(s *domain.Shift) float64 {
	if s.MaxParticipants <= 0 {
		return 0
	}
	return float64(s.CurrentParticipants) / float64(s.MaxParticipants)
}

// HasOpenRole indica se almeno un ruolo del turno ha ancora posti liberi.
func HasOpenRole(s *domain.Shift) bool {
	for role, required := range s.RequiredRoles {
		if int32(countRole(s, role)) < required {
			return true
		}
	}
	return false
}

// SignupState è lo stato del turno dal punto di vista di un singolo utente.
// Da "completo" non esiste transizione diretta a "iscritto": un posto deve
// prima liberarsi.
type SignupState string

const (
	SignupStateOpen   SignupState = "aperto"
	SignupStateFull   SignupState = "completo"
	SignupStateJoined SignupState = "iscritto"
)

func SignupStateFor(s *domain.Shift, userID string) SignupState {
	if _, ok := s.Participants[userID]; ok {
		return SignupStateJoined
	}
	if HasOpenRole(s) {
		return SignupStateOpen
	}
	return SignupStateFull
}
