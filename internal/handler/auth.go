package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cri-turni/backend/internal/domain"
)

const sessionCookieName = "__cri_turni_token"

func sessionKey(sessionID string) string {
	return "sessione_" + sessionID
}

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login è l'accesso anonimo con coppia (nome, cognome). Una coppia nuova crea
// un profilo; una coppia già vista viene riagganciata al suo profilo esistente
// e aggiorna solo la data di ultimo accesso, senza creare righe duplicate. Se
// il profilo è un amministratore la password è obbligatoria.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Password  string `json:"password"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		h.errorResponse(w, r, "nome e cognome sono obbligatori")
		return
	}

	profile, err := h.repository.GetProfileByName(firstName, lastName)
	var notFoundErr *domain.NotFoundError
	switch {
	case err == nil:
		if profile.Role == domain.RoleAdmin {
			if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
				switch {
				case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
					h.errorResponse(w, r, "password errata")
				default:
					h.internalServerError(w, r, err)
				}
				return
			}
		}

		profile.LastLoginAt = time.Now()
		if err := h.repository.UpdateProfile(profile); err != nil {
			var conflictErr *domain.ConflictError
			switch {
			case errors.As(err, &conflictErr):
				h.errorResponse(w, r, "riprova")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	case errors.As(err, &notFoundErr):
		profile = &domain.UserProfile{
			ID:        uuid.NewString(),
			FirstName: firstName,
			LastName:  lastName,
			Role:      domain.RoleUser,
		}
		if err := h.repository.CreateProfile(profile); err != nil {
			var conflictErr *domain.ConflictError
			switch {
			case errors.As(err, &conflictErr):
				// Due primi accessi concorrenti con la stessa coppia: uno dei
				// due ha già creato il profilo.
				h.errorResponse(w, r, "riprova")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	default:
		h.internalServerError(w, r, err)
		return
	}

	// La sessione anonima è un id opaco legato al profilo in Redis: revocarla
	// basta a invalidare il token.
	sessionID := uuid.NewString()
	expiration := time.Now().Add(time.Duration(h.config.Session.Expiration) * time.Second)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := h.redisClient.Set(ctx, sessionKey(sessionID), profile.ID, time.Duration(h.config.Session.Expiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   sessionID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.successResponse(w, r, "accesso effettuato", profile)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Revoca la sessione in Redis, se il cookie è ancora leggibile: un token
	// malformato non deve impedire l'uscita.
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		claims := &AuthClaims{}
		if _, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}); err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
			defer cancel()

			if err := h.redisClient.Del(ctx, sessionKey(claims.Subject)).Err(); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "uscita effettuata", nil)
}
