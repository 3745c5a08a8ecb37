package handler

import (
	"net/http"

	"github.com/cri-turni/backend/internal/domain"
)

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile := r.Context().Value(MyProfileCtx).(*domain.UserProfile)
	h.successResponse(w, r, "profilo recuperato", profile)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}
