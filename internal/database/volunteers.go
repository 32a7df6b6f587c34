package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const volunteerColumns = `id, name, email, phone, availability, interests, experience, message, status, created_at`

func scanVolunteer(row interface{ Scan(...any) error }) (*Volunteer, error) {
	v := &Volunteer{}
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Availability,
		pq.Array(&v.Interests), &v.Experience, &v.Message, &v.Status, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// CreateVolunteer records a volunteer application in status pending.
func (db *DB) CreateVolunteer(ctx context.Context, v *Volunteer) (*Volunteer, error) {
	id := uuid.NewString()
	interests := v.Interests
	if interests == nil {
		interests = []string{}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO volunteers (id, name, email, phone, availability, interests, experience, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, v.Name, v.Email, v.Phone, v.Availability, pq.Array(interests),
		v.Experience, v.Message, VolunteerPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create volunteer: %w", err)
	}

	return db.GetVolunteerByID(ctx, id)
}

// GetVolunteerByID retrieves a volunteer by ID.
func (db *DB) GetVolunteerByID(ctx context.Context, id string) (*Volunteer, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE id = $1`, id)
	v, err := scanVolunteer(row)
	if err == sql.ErrNoRows {
		return nil, ErrVolunteerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return v, nil
}

// GetAllVolunteers lists volunteers newest first, optionally filtered by status.
func (db *DB) GetAllVolunteers(ctx context.Context, status string) ([]*Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []*Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate volunteers: %w", err)
	}

	return volunteers, nil
}

// UpdateVolunteerStatus sets a volunteer's status (approved/declined).
func (db *DB) UpdateVolunteerStatus(ctx context.Context, id, status string) (*Volunteer, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE volunteers SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer status: %w", err)
	}
	if affected == 0 {
		return nil, ErrVolunteerNotFound
	}
	return db.GetVolunteerByID(ctx, id)
}
