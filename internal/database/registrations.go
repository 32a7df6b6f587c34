package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const registrationColumns = `id, service_id, schedule_id, name, email, phone, message, status, created_at`

func scanRegistration(row interface{ Scan(...any) error }) (*Registration, error) {
	reg := &Registration{}
	err := row.Scan(&reg.ID, &reg.ServiceID, &reg.ScheduleID, &reg.Name,
		&reg.Email, &reg.Phone, &reg.Message, &reg.Status, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// NewRegistration carries the intake fields. ScheduleID empty means the
// registrant signed up for the service without picking a session.
type NewRegistration struct {
	ServiceID  string
	ScheduleID string
	Name       string
	Email      string
	Phone      string
	Message    string
}

// CreateRegistration inserts a pending registration and, when a schedule was
// chosen, takes one seat from it. Both effects happen in a single transaction:
// the seat is taken with a conditional decrement so the counter can never go
// negative, and when no seat is left the insert rolls back and ErrScheduleFull
// is returned. Two concurrent takers of the last seat get exactly one success.
func (db *DB) CreateRegistration(ctx context.Context, nr *NewRegistration) (*Registration, error) {
	service, err := db.GetActiveServiceByID(ctx, nr.ServiceID)
	if err != nil {
		return nil, err
	}

	if nr.ScheduleID != "" {
		// The schedule must belong to the requested service.
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schedules WHERE id = $1 AND service_id = $2)`,
			nr.ScheduleID, service.ID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check schedule: %w", err)
		}
		if !exists {
			return nil, ErrScheduleNotFound
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	var scheduleID any
	if nr.ScheduleID != "" {
		scheduleID = nr.ScheduleID
	}
	var phone, message any
	if nr.Phone != "" {
		phone = nr.Phone
	}
	if nr.Message != "" {
		message = nr.Message
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO registrations (id, service_id, schedule_id, name, email, phone, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, service.ID, scheduleID, nr.Name, nr.Email, phone, message, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	if nr.ScheduleID != "" {
		result, err := tx.ExecContext(ctx,
			`UPDATE schedules SET available_spots = available_spots - 1
			 WHERE id = $1 AND available_spots > 0`, nr.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("failed to take seat: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to take seat: %w", err)
		}
		if affected == 0 {
			return nil, ErrScheduleFull
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return db.GetRegistrationByID(ctx, id)
}

// GetRegistrationByID retrieves a registration by ID.
func (db *DB) GetRegistrationByID(ctx context.Context, id string) (*Registration, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// GetAllRegistrations lists registrations newest first, optionally filtered by
// status and/or service.
func (db *DB) GetAllRegistrations(ctx context.Context, status, serviceID string) ([]*Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE 1=1`
	var args []any
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if serviceID != "" {
		args = append(args, serviceID)
		query += fmt.Sprintf(` AND service_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []*Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}

	return regs, nil
}

// UpdateRegistrationStatus sets a registration's status (staff action).
func (db *DB) UpdateRegistrationStatus(ctx context.Context, id, status string) (*Registration, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}
	if affected == 0 {
		return nil, ErrRegistrationNotFound
	}
	return db.GetRegistrationByID(ctx, id)
}

// ConfirmStaleRegistrations promotes every registration still pending after
// the staleness cutoff to confirmed in one statement and returns the number of
// rows affected. Safe to run repeatedly: confirmed rows are never re-selected.
func (db *DB) ConfirmStaleRegistrations(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE status = $2 AND created_at < $3`,
		StatusConfirmed, StatusPending, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to confirm stale registrations: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to confirm stale registrations: %w", err)
	}
	return affected, nil
}
