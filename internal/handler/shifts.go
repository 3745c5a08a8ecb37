package handler

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/cri-turni/backend/internal/domain"
	"github.com/cri-turni/backend/internal/metrics"
	"github.com/cri-turni/backend/internal/reservation"
)

// shiftView è il turno arricchito con la proiezione del roster: occupazione
// per ruolo, frazione di riempimento e stato di iscrizione del richiedente.
type shiftView struct {
	*domain.Shift
	Occupancy    []reservation.RoleOccupancy `json:"occupancy"`
	FillFraction float64                     `json:"fillFraction"`
	SignupState  reservation.SignupState     `json:"signupState"`
}

func (h *Handler) shiftViewFor(s *domain.Shift, userID string) shiftView {
	return shiftView{
		Shift:        s,
		Occupancy:    reservation.ComputeRoleOccupancy(s),
		FillFraction: reservation.FillFraction(s),
		SignupState:  reservation.SignupStateFor(s, userID),
	}
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	profileID := r.Context().Value(ProfileIDCtxKey).(string)

	var shifts []*domain.Shift
	var err error

	date := r.URL.Query().Get("date")
	if date != "" {
		if !slices.Contains(h.config.Event.Dates, date) {
			h.errorResponse(w, r, "la data non rientra nei giorni dell'evento")
			return
		}
		shifts, err = h.repository.GetShiftsByDate(date)
	} else {
		shifts, err = h.repository.GetAllShifts()
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	views := make([]shiftView, 0, len(shifts))
	for _, shift := range shifts {
		views = append(views, h.shiftViewFor(shift, profileID))
	}

	h.successResponse(w, r, "turni recuperati", views)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	profileID := r.Context().Value(ProfileIDCtxKey).(string)

	h.successResponse(w, r, "turno recuperato", h.shiftViewFor(shift, profileID))
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string           `json:"title" validate:"required"`
		Date          string           `json:"date" validate:"required"`
		StartTime     string           `json:"startTime" validate:"required"`
		EndTime       string           `json:"endTime" validate:"required"`
		RequiredRoles map[string]int32 `json:"requiredRoles" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	input := &reservation.ShiftInput{
		Title:         req.Title,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		RequiredRoles: req.RequiredRoles,
	}
	if err := reservation.ValidateShiftInput(input, h.config.Event.Dates); err != nil {
		h.domainError(w, r, err)
		return
	}

	shift := reservation.BuildShift(input)
	if err := h.repository.CreateShift(shift); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "turno creato", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         *string          `json:"title"`
		Date          *string          `json:"date"`
		StartTime     *string          `json:"startTime"`
		EndTime       *string          `json:"endTime"`
		RequiredRoles map[string]int32 `json:"requiredRoles"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	input := &reservation.ShiftInput{
		Title:         shift.Title,
		Date:          shift.Date,
		StartTime:     shift.StartTime,
		EndTime:       shift.EndTime,
		RequiredRoles: shift.RequiredRoles,
	}

	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	if req.StartTime != nil {
		input.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		input.EndTime = *req.EndTime
	}
	if req.RequiredRoles != nil {
		input.RequiredRoles = req.RequiredRoles
	}

	if err := reservation.ValidateShiftInput(input, h.config.Event.Dates); err != nil {
		h.domainError(w, r, err)
		return
	}

	// La riduzione di un ruolo sotto l'occupazione corrente è accettata: chi è
	// già iscritto resta iscritto e il ruolo risulterà oltre capienza.
	next := reservation.ApplyShiftInput(shift, input)
	if err := h.repository.UpdateShift(next); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "turno aggiornato", next)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "turno eliminato", nil)
}

func joinOutcome(err error) string {
	var validationErr *domain.ValidationError
	var capacityErr *domain.CapacityError
	var conflictErr *domain.ConflictError

	switch {
	case err == nil:
		return metrics.JoinOutcomeOK
	case errors.As(err, &validationErr):
		return metrics.JoinOutcomeInvalid
	case errors.As(err, &capacityErr):
		return metrics.JoinOutcomeRoleFull
	case errors.As(err, &conflictErr):
		return metrics.JoinOutcomeConflict
	default:
		return metrics.JoinOutcomeError
	}
}

func (h *Handler) JoinShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	me := r.Context().Value(MyProfileCtx).(*domain.UserProfile)

	// Le precondizioni vengono rivalutate qui, al momento della scrittura: il
	// roster può essere cambiato da quando il client ha caricato il turno.
	next, err := reservation.Join(shift, me.ID, me.FullName(), req.Role)
	if err != nil {
		metrics.JoinAttemptsTotal.WithLabelValues(joinOutcome(err)).Inc()
		h.domainError(w, r, err)
		return
	}

	participant := next.Participants[me.ID]
	if err := h.repository.AddShiftParticipant(shift, me.ID, participant); err != nil {
		metrics.JoinAttemptsTotal.WithLabelValues(joinOutcome(err)).Inc()
		h.domainError(w, r, err)
		return
	}

	metrics.JoinAttemptsTotal.WithLabelValues(metrics.JoinOutcomeOK).Inc()
	h.successResponse(w, r, "iscrizione al turno completata", h.shiftViewFor(next, me.ID))
}

func (h *Handler) LeaveShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	me := r.Context().Value(MyProfileCtx).(*domain.UserProfile)

	next, err := reservation.Leave(shift, me.ID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.RemoveShiftParticipant(shift, me.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "iscrizione cancellata", h.shiftViewFor(next, me.ID))
}

// AddShiftParticipant iscrive un utente per conto di un amministratore, con
// le stesse precondizioni dell'iscrizione in autonomia.
func (h *Handler) AddShiftParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userID" validate:"required"`
		Role   string `json:"role" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	target, err := h.repository.GetProfileByID(req.UserID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	next, err := reservation.Join(shift, target.ID, target.FullName(), req.Role)
	if err != nil {
		metrics.JoinAttemptsTotal.WithLabelValues(joinOutcome(err)).Inc()
		h.domainError(w, r, err)
		return
	}

	participant := next.Participants[target.ID]
	if err := h.repository.AddShiftParticipant(shift, target.ID, participant); err != nil {
		metrics.JoinAttemptsTotal.WithLabelValues(joinOutcome(err)).Inc()
		h.domainError(w, r, err)
		return
	}

	metrics.JoinAttemptsTotal.WithLabelValues(metrics.JoinOutcomeOK).Inc()
	h.successResponse(w, r, "partecipante aggiunto", h.shiftViewFor(next, target.ID))
}

func (h *Handler) RemoveShiftParticipant(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.errorResponse(w, r, "id dell'utente non valido")
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	next, err := reservation.Leave(shift, userID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.RemoveShiftParticipant(shift, userID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "partecipante rimosso", h.shiftViewFor(next, userID))
}
