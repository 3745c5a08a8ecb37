package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cri-turni/backend/internal/domain"
)

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `
		SELECT
			s.title,
			s.date,
			s.start_time,
			s.end_time,
			s.max_participants,
			s.current_participants,
			s.created_at,
			s.version,
			sr.name,
			sr.required,
			sp.user_id,
			sp.role,
			sp.name
		FROM shifts s
		LEFT JOIN shift_roles sr ON s.id = sr.shift_id
		LEFT JOIN shift_participants sp ON s.id = sp.shift_id
		WHERE s.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, storeError("la lettura del turno", err)
	}
	defer rows.Close()

	shift := &domain.Shift{
		ID:            id,
		RequiredRoles: make(map[string]int32),
		Participants:  make(map[string]domain.Participant),
	}
	found := false

	for rows.Next() {
		var row struct {
			Title               string
			Date                string
			StartTime           string
			EndTime             string
			MaxParticipants     int32
			CurrentParticipants int32
			CreatedAt           time.Time
			Version             int32

			RoleName        sql.NullString
			RoleRequired    sql.NullInt32
			UserID          sql.NullString
			ParticipantRole sql.NullString
			ParticipantName sql.NullString
		}

		dst := []any{
			&row.Title,
			&row.Date,
			&row.StartTime,
			&row.EndTime,
			&row.MaxParticipants,
			&row.CurrentParticipants,
			&row.CreatedAt,
			&row.Version,
			&row.RoleName,
			&row.RoleRequired,
			&row.UserID,
			&row.ParticipantRole,
			&row.ParticipantName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeError("la lettura del turno", err)
		}

		if !found {
			found = true
			shift.Title = row.Title
			shift.Date = row.Date
			shift.StartTime = row.StartTime
			shift.EndTime = row.EndTime
			shift.MaxParticipants = row.MaxParticipants
			shift.CurrentParticipants = row.CurrentParticipants
			shift.CreatedAt = row.CreatedAt
			shift.Version = row.Version
		}

		// La doppia LEFT JOIN produce il prodotto ruoli × partecipanti: le
		// mappe deduplicano le ripetizioni.
		if row.RoleName.Valid {
			shift.RequiredRoles[row.RoleName.String] = row.RoleRequired.Int32
		}
		if row.UserID.Valid {
			shift.Participants[row.UserID.String] = domain.Participant{
				Role: row.ParticipantRole.String,
				Name: row.ParticipantName.String,
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("la lettura del turno", err)
	}

	if !found {
		return nil, &domain.NotFoundError{Resource: "turno"}
	}

	return shift, nil
}

func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	query := shiftsQuery + ` ORDER BY s.date, s.start_time, s.id`

	return r.queryShifts(query)
}

func (r *Repository) GetShiftsByDate(date string) ([]*domain.Shift, error) {
	query := shiftsQuery + ` WHERE s.date = $1 ORDER BY s.start_time, s.id`

	return r.queryShifts(query, date)
}

const shiftsQuery = `
	SELECT
		s.id,
		s.title,
		s.date,
		s.start_time,
		s.end_time,
		s.max_participants,
		s.current_participants,
		s.created_at,
		s.version,
		sr.name,
		sr.required,
		sp.user_id,
		sp.role,
		sp.name
	FROM shifts s
	LEFT JOIN shift_roles sr ON s.id = sr.shift_id
	LEFT JOIN shift_participants sp ON s.id = sp.shift_id
`

func (r *Repository) queryShifts(query string, args ...any) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("la lettura dei turni", err)
	}
	defer rows.Close()

	shiftsMap := make(map[int64]*domain.Shift)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                  int64
			Title               string
			Date                string
			StartTime           string
			EndTime             string
			MaxParticipants     int32
			CurrentParticipants int32
			CreatedAt           time.Time
			Version             int32

			RoleName        sql.NullString
			RoleRequired    sql.NullInt32
			UserID          sql.NullString
			ParticipantRole sql.NullString
			ParticipantName sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Title,
			&row.Date,
			&row.StartTime,
			&row.EndTime,
			&row.MaxParticipants,
			&row.CurrentParticipants,
			&row.CreatedAt,
			&row.Version,
			&row.RoleName,
			&row.RoleRequired,
			&row.UserID,
			&row.ParticipantRole,
			&row.ParticipantName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeError("la lettura dei turni", err)
		}

		shift, exists := shiftsMap[row.ID]
		if !exists {
			shift = &domain.Shift{
				ID:                  row.ID,
				Title:               row.Title,
				Date:                row.Date,
				StartTime:           row.StartTime,
				EndTime:             row.EndTime,
				MaxParticipants:     row.MaxParticipants,
				CurrentParticipants: row.CurrentParticipants,
				CreatedAt:           row.CreatedAt,
				Version:             row.Version,
				RequiredRoles:       make(map[string]int32),
				Participants:        make(map[string]domain.Participant),
			}
			shiftsMap[row.ID] = shift
			order = append(order, row.ID)
		}

		if row.RoleName.Valid {
			shift.RequiredRoles[row.RoleName.String] = row.RoleRequired.Int32
		}
		if row.UserID.Valid {
			shift.Participants[row.UserID.String] = domain.Participant{
				Role: row.ParticipantRole.String,
				Name: row.ParticipantName.String,
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("la lettura dei turni", err)
	}

	shifts := make([]*domain.Shift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return storeError("la creazione del turno", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (title, date, start_time, end_time, max_participants)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, current_participants, created_at, version
	`
	args := []any{shift.Title, shift.Date, shift.StartTime, shift.EndTime, shift.MaxParticipants}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CurrentParticipants, &shift.CreatedAt, &shift.Version); err != nil {
		return storeError("la creazione del turno", err)
	}

	for role, required := range shift.RequiredRoles {
		query = `
			INSERT INTO shift_roles (shift_id, name, required)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, role, required); err != nil {
			return storeError("la creazione del turno", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("la creazione del turno", err)
	}

	return nil
}

// UpdateShift sostituisce i dati e lo schema dei ruoli del turno lasciando
// intatto il roster. La guardia sulla versione garantisce che la modifica si
// applichi solo allo snapshot che l'amministratore aveva letto.
func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return storeError("l'aggiornamento del turno", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE shifts
		SET
			title = $1,
			date = $2,
			start_time = $3,
			end_time = $4,
			max_participants = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`
	args := []any{shift.Title, shift.Date, shift.StartTime, shift.EndTime, shift.MaxParticipants, shift.ID, shift.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return &domain.ConflictError{Reason: "il turno è stato modificato nel frattempo, riprova"}
		default:
			return storeError("l'aggiornamento del turno", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_roles WHERE shift_id = $1`, shift.ID); err != nil {
		return storeError("l'aggiornamento del turno", err)
	}

	for role, required := range shift.RequiredRoles {
		query = `
			INSERT INTO shift_roles (shift_id, name, required)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, role, required); err != nil {
			return storeError("l'aggiornamento del turno", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("l'aggiornamento del turno", err)
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return storeError("l'eliminazione del turno", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("l'eliminazione del turno", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "turno"}
	}

	return nil
}

// AddShiftParticipant aggiunge una riga di partecipazione e incrementa il
// contatore denormalizzato in un'unica transazione guardata dalla versione
// del turno. Se due iscrizioni concorrenti hanno validato lo stesso snapshot
// per l'ultimo posto libero, una sola trova ancora la versione attesa: l'altra
// perde la corsa e riceve un ConflictError, mai una sovrascrittura silenziosa.
func (r *Repository) AddShiftParticipant(shift *domain.Shift, userID string, participant domain.Participant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return storeError("l'iscrizione al turno", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_participants (shift_id, user_id, role, name)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, query, shift.ID, userID, participant.Role, participant.Name); err != nil {
		switch constraintName(err) {
		case "shift_participants_pkey":
			return &domain.ConflictError{Reason: "sei già iscritto a questo turno"}
		default:
			return storeError("l'iscrizione al turno", err)
		}
	}

	query = `
		UPDATE shifts
		SET
			current_participants = current_participants + 1,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return &domain.ConflictError{Reason: "il turno è stato modificato nel frattempo, riprova"}
		default:
			return storeError("l'iscrizione al turno", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("l'iscrizione al turno", err)
	}

	return nil
}

// RemoveShiftParticipant è l'operazione inversa, con le stesse garanzie.
func (r *Repository) RemoveShiftParticipant(shift *domain.Shift, userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return storeError("la cancellazione dell'iscrizione", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM shift_participants WHERE shift_id = $1 AND user_id = $2
	`
	result, err := tx.ExecContext(ctx, query, shift.ID, userID)
	if err != nil {
		return storeError("la cancellazione dell'iscrizione", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("la cancellazione dell'iscrizione", err)
	}
	if affected == 0 {
		return &domain.ConflictError{Reason: "l'utente non risulta iscritto a questo turno"}
	}

	// GREATEST evita comunque che il contatore scenda sotto zero, anche se la
	// DELETE qui sopra rende il caso impossibile.
	query = `
		UPDATE shifts
		SET
			current_participants = GREATEST(current_participants - 1, 0),
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return &domain.ConflictError{Reason: "il turno è stato modificato nel frattempo, riprova"}
		default:
			return storeError("la cancellazione dell'iscrizione", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("la cancellazione dell'iscrizione", err)
	}

	return nil
}
