package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cri-turni/backend/internal/domain"
)

var testEventDates = []string{"2025-05-09", "2025-05-10", "2025-05-11"}

func newTestShiftInput() *ShiftInput {
	return &ShiftInput{
		Title:     "Presidio sanitario",
		Date:      "2025-05-09",
		StartTime: "08:00",
		EndTime:   "14:00",
		RequiredRoles: map[string]int32{
			"Medico":     1,
			"Volontario": 2,
		},
	}
}

func TestValidateShiftInput(t *testing.T) {
	t.Run("input valido", func(t *testing.T) {
		require.NoError(t, ValidateShiftInput(newTestShiftInput(), testEventDates))
	})

	invalid := []struct {
		name   string
		mutate func(in *ShiftInput)
	}{
		{"titolo vuoto", func(in *ShiftInput) { in.Title = "   " }},
		{"data malformata", func(in *ShiftInput) { in.Date = "09/05/2025" }},
		{"data fuori dall'evento", func(in *ShiftInput) { in.Date = "2025-06-01" }},
		{"orario di inizio malformato", func(in *ShiftInput) { in.StartTime = "8am" }},
		{"orario di fine malformato", func(in *ShiftInput) { in.EndTime = "25:00" }},
		{"fine non successiva all'inizio", func(in *ShiftInput) { in.EndTime = "08:00" }},
		{"nessun ruolo richiesto", func(in *ShiftInput) { in.RequiredRoles = map[string]int32{} }},
		{"nome di ruolo vuoto", func(in *ShiftInput) { in.RequiredRoles = map[string]int32{" ": 1} }},
		{"ruolo con zero posti", func(in *ShiftInput) { in.RequiredRoles["Medico"] = 0 }},
		{"ruolo con posti negativi", func(in *ShiftInput) { in.RequiredRoles["Medico"] = -1 }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			in := newTestShiftInput()
			tc.mutate(in)

			err := ValidateShiftInput(in, testEventDates)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestBuildShift(t *testing.T) {
	in := newTestShiftInput()

	s := BuildShift(in)

	assert.Equal(t, "Presidio sanitario", s.Title)
	assert.Equal(t, "2025-05-09", s.Date)
	assert.Empty(t, s.Participants)
	assert.Equal(t, int32(0), s.CurrentParticipants)
	assert.Equal(t, int32(3), s.MaxParticipants)

	// I ruoli sono copiati, non condivisi con l'input.
	in.RequiredRoles["Medico"] = 99
	assert.Equal(t, int32(1), s.RequiredRoles["Medico"])
}

func TestApplyShiftInput(t *testing.T) {
	t.Run("il roster resta invariato", func(t *testing.T) {
		s := BuildShift(newTestShiftInput())
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		in := newTestShiftInput()
		in.Title = "Presidio sanitario - mattina"
		in.RequiredRoles["Volontario"] = 5

		next := ApplyShiftInput(s, in)

		assert.Equal(t, "Presidio sanitario - mattina", next.Title)
		assert.Equal(t, int32(6), next.MaxParticipants)
		assert.Equal(t, int32(1), next.CurrentParticipants)
		assert.Contains(t, next.Participants, "u1")
	})

	t.Run("la riduzione sotto l'occupazione non espelle nessuno", func(t *testing.T) {
		in := newTestShiftInput()
		in.RequiredRoles = map[string]int32{"Volontario": 2}
		s := BuildShift(in)

		s, err := Join(s, "u1", "Sara Bianchi", "Volontario")
		require.NoError(t, err)
		s, err = Join(s, "u2", "Anna Conti", "Volontario")
		require.NoError(t, err)

		in.RequiredRoles = map[string]int32{"Volontario": 1}
		next := ApplyShiftInput(s, in)

		require.Len(t, next.Participants, 2)
		assert.Equal(t, int32(1), next.MaxParticipants)

		occ := ComputeRoleOccupancy(next)
		require.Len(t, occ, 1)
		assert.True(t, occ[0].Filled)
		assert.True(t, occ[0].Over)
	})
}
