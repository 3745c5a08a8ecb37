package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cri-turni/backend/internal/domain"
)

func (r *Repository) GetProfileByID(id string) (*domain.UserProfile, error) {
	query := `
		SELECT first_name, last_name, role, COALESCE(password_hash, ''), created_at, last_login_at, version
		FROM profiles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.UserProfile{
		ID: id,
	}

	dst := []any{&profile.FirstName, &profile.LastName, &profile.Role, &profile.PasswordHash, &profile.CreatedAt, &profile.LastLoginAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, &domain.NotFoundError{Resource: "profilo"}
		default:
			return nil, storeError("la lettura del profilo", err)
		}
	}

	return profile, nil
}

// GetProfileByName cerca un profilo per coppia (nome, cognome): è la chiave
// di accesso dell'applicazione.
func (r *Repository) GetProfileByName(firstName string, lastName string) (*domain.UserProfile, error) {
	query := `
		SELECT id, role, COALESCE(password_hash, ''), created_at, last_login_at, version
		FROM profiles WHERE first_name = $1 AND last_name = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.UserProfile{
		FirstName: firstName,
		LastName:  lastName,
	}

	dst := []any{&profile.ID, &profile.Role, &profile.PasswordHash, &profile.CreatedAt, &profile.LastLoginAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, firstName, lastName).Scan(dst...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, &domain.NotFoundError{Resource: "profilo"}
		default:
			return nil, storeError("la ricerca del profilo", err)
		}
	}

	return profile, nil
}

func (r *Repository) GetAllProfiles() ([]*domain.UserProfile, error) {
	query := `
		SELECT id, first_name, last_name, role, COALESCE(password_hash, ''), created_at, last_login_at, version
		FROM profiles
		ORDER BY last_name, first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("la lettura dei profili", err)
	}
	defer rows.Close()

	profiles := make([]*domain.UserProfile, 0)
	for rows.Next() {
		profile := &domain.UserProfile{}
		dst := []any{&profile.ID, &profile.FirstName, &profile.LastName, &profile.Role, &profile.PasswordHash, &profile.CreatedAt, &profile.LastLoginAt, &profile.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeError("la lettura dei profili", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("la lettura dei profili", err)
	}

	return profiles, nil
}

func (r *Repository) CreateProfile(profile *domain.UserProfile) error {
	query := `
		INSERT INTO profiles (id, first_name, last_name, role, password_hash)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING created_at, last_login_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.ID, profile.FirstName, profile.LastName, profile.Role, profile.PasswordHash}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.CreatedAt, &profile.LastLoginAt, &profile.Version); err != nil {
		switch constraintName(err) {
		case "profiles_full_name_key":
			return &domain.ConflictError{Reason: "esiste già un profilo con questo nome e cognome"}
		case "profiles_pkey":
			return &domain.ConflictError{Reason: "esiste già un profilo con questo identificativo"}
		default:
			return storeError("la creazione del profilo", err)
		}
	}

	return nil
}

func (r *Repository) UpdateProfile(profile *domain.UserProfile) error {
	query := `
		UPDATE profiles
		SET
			role = $1,
			password_hash = NULLIF($2, ''),
			last_login_at = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.Role, profile.PasswordHash, profile.LastLoginAt, profile.ID, profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.Version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Il profilo non esiste più oppure è stato modificato nel
			// frattempo: in entrambi i casi la scrittura non si applica.
			return &domain.ConflictError{Reason: "il profilo è stato modificato nel frattempo, riprova"}
		default:
			return storeError("l'aggiornamento del profilo", err)
		}
	}

	return nil
}

func (r *Repository) DeleteProfile(id string) error {
	query := `
		DELETE FROM profiles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return storeError("l'eliminazione del profilo", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("l'eliminazione del profilo", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "profilo"}
	}

	return nil
}
