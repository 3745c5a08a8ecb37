package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cri-turni/backend/internal/domain"
)

func newTestShift() *domain.Shift {
	return &domain.Shift{
		ID:        1,
		Title:     "Presidio sanitario",
		Date:      "2025-05-09",
		StartTime: "08:00",
		EndTime:   "14:00",
		RequiredRoles: map[string]int32{
			"Medico":     1,
			"Volontario": 2,
		},
		Participants:        map[string]domain.Participant{},
		MaxParticipants:     3,
		CurrentParticipants: 0,
	}
}

func TestComputeRoleOccupancy(t *testing.T) {
	t.Run("turno vuoto", func(t *testing.T) {
		occ := ComputeRoleOccupancy(newTestShift())

		require.Len(t, occ, 2)
		assert.Equal(t, "Medico", occ[0].Role)
		assert.Equal(t, "Volontario", occ[1].Role)
		for _, ro := range occ {
			assert.Empty(t, ro.Occupants)
			assert.False(t, ro.Filled)
			assert.False(t, ro.Over)
		}
	})

	t.Run("roster assente", func(t *testing.T) {
		s := newTestShift()
		s.Participants = nil

		occ := ComputeRoleOccupancy(s)

		require.Len(t, occ, 2)
		assert.Empty(t, occ[0].Occupants)
	})

	t.Run("conteggio per ruolo e ordinamento per nome", func(t *testing.T) {
		s := newTestShift()
		s.Participants = map[string]domain.Participant{
			"u1": {Role: "Volontario", Name: "Sara Bianchi"},
			"u2": {Role: "Medico", Name: "Marco Rossi"},
			"u3": {Role: "Volontario", Name: "Anna Conti"},
		}

		occ := ComputeRoleOccupancy(s)

		require.Len(t, occ, 2)
		assert.Equal(t, "Medico", occ[0].Role)
		require.Len(t, occ[0].Occupants, 1)
		assert.True(t, occ[0].Filled)
		assert.False(t, occ[0].Over)

		assert.Equal(t, "Volontario", occ[1].Role)
		require.Len(t, occ[1].Occupants, 2)
		assert.Equal(t, "Anna Conti", occ[1].Occupants[0].Name)
		assert.Equal(t, "Sara Bianchi", occ[1].Occupants[1].Name)
		assert.True(t, occ[1].Filled)
	})

	t.Run("ruolo oltre capienza dopo una riduzione", func(t *testing.T) {
		s := newTestShift()
		s.Participants = map[string]domain.Participant{
			"u1": {Role: "Volontario", Name: "Sara Bianchi"},
			"u2": {Role: "Volontario", Name: "Anna Conti"},
		}
		s.RequiredRoles["Volontario"] = 1

		occ := ComputeRoleOccupancy(s)

		assert.Equal(t, "Volontario", occ[1].Role)
		assert.True(t, occ[1].Filled)
		assert.True(t, occ[1].Over)
	})
}

func TestCanJoin(t *testing.T) {
	t.Run("ruolo non previsto", func(t *testing.T) {
		err := CanJoin(newTestShift(), "u1", "Autista")

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("ruolo al completo", func(t *testing.T) {
		s := newTestShift()
		s.Participants["u1"] = domain.Participant{Role: "Medico", Name: "Marco Rossi"}

		err := CanJoin(s, "u2", "Medico")

		var capacityErr *domain.CapacityError
		require.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, "Medico", capacityErr.Role)
	})

	t.Run("utente già iscritto", func(t *testing.T) {
		s := newTestShift()
		s.Participants["u1"] = domain.Participant{Role: "Medico", Name: "Marco Rossi"}

		err := CanJoin(s, "u1", "Volontario")

		var conflictErr *domain.ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("il controllo di capienza precede quello di doppia iscrizione", func(t *testing.T) {
		s := newTestShift()
		s.Participants["u1"] = domain.Participant{Role: "Medico", Name: "Marco Rossi"}

		// u1 è già iscritto ma il ruolo richiesto è anche al completo: deve
		// prevalere l'errore di capienza.
		err := CanJoin(s, "u1", "Medico")

		var capacityErr *domain.CapacityError
		require.ErrorAs(t, err, &capacityErr)
	})

	t.Run("posto libero", func(t *testing.T) {
		require.NoError(t, CanJoin(newTestShift(), "u1", "Volontario"))
	})
}

func TestJoin(t *testing.T) {
	t.Run("iscrizione riuscita", func(t *testing.T) {
		s := newTestShift()

		next, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		assert.Equal(t, int32(1), next.CurrentParticipants)
		assert.Equal(t, domain.Participant{Role: "Medico", Name: "Marco Rossi"}, next.Participants["u1"])
	})

	t.Run("il turno in ingresso non viene modificato", func(t *testing.T) {
		s := newTestShift()

		_, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		assert.Empty(t, s.Participants)
		assert.Equal(t, int32(0), s.CurrentParticipants)
	})

	t.Run("il contatore coincide sempre con il roster", func(t *testing.T) {
		s := newTestShift()
		// Contatore corrotto in ingresso: Join lo ricalcola dal roster.
		s.CurrentParticipants = 42

		next, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		assert.Equal(t, int32(len(next.Participants)), next.CurrentParticipants)
		assert.Equal(t, int32(1), next.CurrentParticipants)
	})

	t.Run("iscrizione doppia rifiutata senza effetti", func(t *testing.T) {
		s := newTestShift()

		first, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		next, err := Join(first, "u1", "Marco Rossi", "Volontario")
		var conflictErr *domain.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Nil(t, next)
		assert.Equal(t, int32(1), first.CurrentParticipants)
	})

	t.Run("scenario completo con Medico e due Volontari", func(t *testing.T) {
		s := newTestShift()

		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)
		s, err = Join(s, "u2", "Sara Bianchi", "Volontario")
		require.NoError(t, err)
		s, err = Join(s, "u3", "Anna Conti", "Volontario")
		require.NoError(t, err)

		assert.Equal(t, int32(3), s.CurrentParticipants)
		assert.False(t, HasOpenRole(s))

		// Il quarto arrivato trova tutto al completo.
		_, err = Join(s, "u4", "Luca Greco", "Volontario")
		var capacityErr *domain.CapacityError
		require.ErrorAs(t, err, &capacityErr)
	})
}

func TestLeave(t *testing.T) {
	t.Run("cancellazione riuscita", func(t *testing.T) {
		s := newTestShift()
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		next, err := Leave(s, "u1")
		require.NoError(t, err)

		assert.Empty(t, next.Participants)
		assert.Equal(t, int32(0), next.CurrentParticipants)
		// Lo stato originale resta intatto.
		assert.Equal(t, int32(1), s.CurrentParticipants)
	})

	t.Run("utente non iscritto", func(t *testing.T) {
		_, err := Leave(newTestShift(), "u1")

		var conflictErr *domain.ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("il contatore non diventa mai negativo", func(t *testing.T) {
		s := newTestShift()
		s.Participants["u1"] = domain.Participant{Role: "Medico", Name: "Marco Rossi"}
		s.CurrentParticipants = 0

		next, err := Leave(s, "u1")
		require.NoError(t, err)

		assert.Equal(t, int32(0), next.CurrentParticipants)
	})

	t.Run("un posto liberato torna disponibile", func(t *testing.T) {
		s := newTestShift()
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		require.Error(t, CanJoin(s, "u2", "Medico"))

		s, err = Leave(s, "u1")
		require.NoError(t, err)

		require.NoError(t, CanJoin(s, "u2", "Medico"))
	})
}
