package utils

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/cri-turni/backend/internal/domain"
	"github.com/cri-turni/backend/internal/reservation"
)

var commonFirstNames = []string{
	"Marco", "Giulia", "Luca", "Sara", "Alessandro", "Francesca", "Matteo",
	"Chiara", "Davide", "Elena", "Simone", "Martina", "Andrea", "Valentina",
	"Giorgio", "Alice", "Paolo", "Federica", "Stefano", "Ilaria",
}

var commonLastNames = []string{
	"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano", "Colombo",
	"Ricci", "Marino", "Greco", "Bruno", "Gallo", "Conti", "De Luca",
	"Mancini", "Costa", "Giordano", "Rizzo", "Lombardi", "Moretti",
}

func GenerateRandomProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:        uuid.NewString(),
		FirstName: commonFirstNames[rand.Intn(len(commonFirstNames))],
		LastName:  commonLastNames[rand.Intn(len(commonLastNames))],
		Role:      domain.RoleUser,
	}
}

var shiftTitles = []string{
	"Presidio sanitario", "Accoglienza", "Trasporto", "Punto ristoro",
	"Assistenza palco", "Logistica",
}

var roleSets = []map[string]int32{
	{"Medico": 1, "Infermiere": 1, "Volontario": 3},
	{"Medico": 1, "Volontario": 2},
	{"Autista": 2, "Volontario": 4},
	{"Caposquadra": 1, "Volontario": 5},
}

var timeWindows = [][2]string{
	{"08:00", "14:00"},
	{"14:00", "20:00"},
	{"18:00", "23:30"},
}

// GenerateRandomShift genera un turno plausibile in una delle date configurate
// dell'evento.
func GenerateRandomShift(eventDates []string) *domain.Shift {
	window := timeWindows[rand.Intn(len(timeWindows))]
	roles := roleSets[rand.Intn(len(roleSets))]

	requiredRoles := make(map[string]int32, len(roles))
	for role, required := range roles {
		requiredRoles[role] = required
	}

	input := &reservation.ShiftInput{
		Title:         shiftTitles[rand.Intn(len(shiftTitles))],
		Date:          eventDates[rand.Intn(len(eventDates))],
		StartTime:     window[0],
		EndTime:       window[1],
		RequiredRoles: requiredRoles,
	}

	return reservation.BuildShift(input)
}
