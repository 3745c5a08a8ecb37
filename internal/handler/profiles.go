package handler

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/cri-turni/backend/internal/domain"
)

func (h *Handler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.repository.GetAllProfiles()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "profili recuperati", profiles)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile := r.Context().Value(ProfileCtx).(*domain.UserProfile)
	h.successResponse(w, r, "profilo recuperato", profile)
}

// UpdateProfile permette a un amministratore di cambiare il ruolo di un
// profilo. La promozione ad amministratore richiede una password, che servirà
// al promosso per i successivi accessi.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
		Password *string `json:"password"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	profile := r.Context().Value(ProfileCtx).(*domain.UserProfile)

	if req.Role != nil {
		profile.Role = domain.Role(*req.Role)
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		profile.PasswordHash = string(hashedPassword)
	}

	if profile.Role == domain.RoleAdmin && profile.PasswordHash == "" {
		h.errorResponse(w, r, "un amministratore deve avere una password")
		return
	}
	if profile.Role == domain.RoleUser {
		profile.PasswordHash = ""
	}

	if err := h.repository.UpdateProfile(profile); err != nil {
		var conflictErr *domain.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, "aggiornamento del profilo non riuscito, riprova")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "profilo aggiornato", profile)
}

// DeleteProfile elimina il profilo ma non tocca i roster già pubblicati: le
// iscrizioni esistenti restano, con il nome denormalizzato.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profile := r.Context().Value(ProfileCtx).(*domain.UserProfile)

	if err := h.repository.DeleteProfile(profile.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "profilo eliminato", nil)
}
