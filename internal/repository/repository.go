package repository

import (
	"database/sql"
	"errors"

	"github.com/cri-turni/backend/internal/config"
	"github.com/cri-turni/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// constraintName estrae il nome del vincolo violato, se l'errore è un errore
// Postgres. Permette di tradurre le violazioni di unicità in ConflictError di
// dominio invece di far trapelare l'errore del driver.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func storeError(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}
