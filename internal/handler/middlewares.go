package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/cri-turni/backend/internal/domain"
	"github.com/cri-turni/backend/internal/metrics"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("richiesta servita", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		// Il pattern di rotta (es. /shifts/{id}) tiene bassa la cardinalità
		// dell'etichetta rispetto al path grezzo.
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}
		status := rw.StatusCode
		if status == 0 {
			status = http.StatusOK
		}

		metrics.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // con slog il traceback diventa illeggibile
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// auth valida il token della sessione anonima: il cookie contiene un JWT il
// cui subject è l'id di sessione, la sessione in Redis lo lega al profilo.
// Una sessione revocata o scaduta in Redis invalida il token anche se il JWT
// di per sé sarebbe ancora valido.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "utente non autenticato")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "token non valido")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
		defer cancel()

		profileID, err := h.redisClient.Get(ctx, sessionKey(claims.Subject)).Result()
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				h.errorResponse(w, r, "sessione scaduta, effettua di nuovo l'accesso")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		reqCtx := r.Context()
		reqCtx = context.WithValue(reqCtx, RoleCtxKey, claims.Role)
		reqCtx = context.WithValue(reqCtx, SessionCtxKey, claims.Subject)
		reqCtx = context.WithValue(reqCtx, ProfileIDCtxKey, profileID)

		next.ServeHTTP(w, r.WithContext(reqCtx))
	})
}

func (h *Handler) myProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := r.Context().Value(ProfileIDCtxKey).(string)

		profile, err := h.repository.GetProfileByID(profileID)
		if err != nil {
			var notFoundErr *domain.NotFoundError
			switch {
			case errors.As(err, &notFoundErr):
				h.errorResponse(w, r, "il profilo non esiste più")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyProfileCtx, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "permessi insufficienti")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) shift(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shiftIDParam := chi.URLParam(r, "id")
		shiftID, err := strconv.ParseInt(shiftIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "id del turno non valido")
			return
		}

		shift, err := h.repository.GetShiftByID(shiftID)
		if err != nil {
			h.domainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ShiftCtx, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) profile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := chi.URLParam(r, "id")
		if strings.TrimSpace(profileID) == "" {
			h.errorResponse(w, r, "id del profilo non valido")
			return
		}

		profile, err := h.repository.GetProfileByID(profileID)
		if err != nil {
			h.domainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ProfileCtx, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) preventOperateInitialAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := r.Context().Value(ProfileCtx).(*domain.UserProfile)
		if profile.FirstName == h.config.InitialAdmin.FirstName && profile.LastName == h.config.InitialAdmin.LastName {
			h.errorResponse(w, r, "l'amministratore iniziale non può essere eliminato")
			return
		}
		next.ServeHTTP(w, r)
	})
}
