package handler

import (
	"github.com/go-chi/chi/v5"
	it_locale "github.com/go-playground/locales/it"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	it_translations "github.com/go-playground/validator/v10/translations/it"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cri-turni/backend/internal/config"
	"github.com/cri-turni/backend/internal/domain"
	"github.com/cri-turni/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	it := it_locale.New()
	uni := ut.New(it, it)
	trans, _ := uni.GetTranslator("it")
	if err := it_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.metrics)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Handle("/metrics", promhttp.Handler())

	// Accesso e uscita
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Tutte le API qui sotto richiedono una sessione valida
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.myProfile).Get("/me", h.GetMyProfile)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.GetAllShifts)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteShift)

				// Iscrizione e cancellazione in autonomia
				r.Group(func(r chi.Router) {
					r.Use(h.myProfile)
					r.Post("/join", h.JoinShift)
					r.Post("/leave", h.LeaveShift)
				})

				// Gestione del roster da parte degli amministratori
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
					r.Post("/participants", h.AddShiftParticipant)
					r.Delete("/participants/{userID}", h.RemoveShiftParticipant)
				})
			})
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetAllProfiles)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.profile)
				r.Get("/", h.GetProfile)
				r.Patch("/", h.UpdateProfile)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteProfile)
			})
		})
	})
}
