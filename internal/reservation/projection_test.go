package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillFraction(t *testing.T) {
	t.Run("capienza zero", func(t *testing.T) {
		s := newTestShift()
		s.MaxParticipants = 0
		s.CurrentParticipants = 0

		assert.Equal(t, float64(0), FillFraction(s))
	})

	t.Run("turno parzialmente pieno", func(t *testing.T) {
		s := newTestShift()
		s.CurrentParticipants = 1

		assert.InDelta(t, 1.0/3.0, FillFraction(s), 1e-9)
	})

	t.Run("turno pieno", func(t *testing.T) {
		s := newTestShift()
		s.CurrentParticipants = 3

		assert.Equal(t, float64(1), FillFraction(s))
	})
}

func TestSignupStateFor(t *testing.T) {
	t.Run("turno con posti liberi", func(t *testing.T) {
		assert.Equal(t, SignupStateOpen, SignupStateFor(newTestShift(), "u1"))
	})

	t.Run("utente iscritto", func(t *testing.T) {
		s := newTestShift()
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)

		assert.Equal(t, SignupStateJoined, SignupStateFor(s, "u1"))
		// Per gli altri il turno resta aperto finché c'è un ruolo libero.
		assert.Equal(t, SignupStateOpen, SignupStateFor(s, "u2"))
	})

	t.Run("turno al completo", func(t *testing.T) {
		s := newTestShift()
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)
		s, err = Join(s, "u2", "Sara Bianchi", "Volontario")
		require.NoError(t, err)
		s, err = Join(s, "u3", "Anna Conti", "Volontario")
		require.NoError(t, err)

		assert.Equal(t, SignupStateFull, SignupStateFor(s, "u4"))
		// Chi è iscritto vede comunque il proprio stato, non "completo".
		assert.Equal(t, SignupStateJoined, SignupStateFor(s, "u1"))
	})

	t.Run("da completo si torna aperto quando un posto si libera", func(t *testing.T) {
		s := newTestShift()
		s, err := Join(s, "u1", "Marco Rossi", "Medico")
		require.NoError(t, err)
		s, err = Join(s, "u2", "Sara Bianchi", "Volontario")
		require.NoError(t, err)
		s, err = Join(s, "u3", "Anna Conti", "Volontario")
		require.NoError(t, err)

		require.Equal(t, SignupStateFull, SignupStateFor(s, "u4"))

		s, err = Leave(s, "u2")
		require.NoError(t, err)

		assert.Equal(t, SignupStateOpen, SignupStateFor(s, "u4"))
		// Solo a questo punto u4 può effettivamente iscriversi.
		require.NoError(t, CanJoin(s, "u4", "Volontario"))
	})
}
