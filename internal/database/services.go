package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const serviceColumns = `id, slug, title, category, description, duration, price, max_attendees, image, active, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (*Service, error) {
	s := &Service{}
	err := row.Scan(&s.ID, &s.Slug, &s.Title, &s.Category, &s.Description,
		&s.Duration, &s.Price, &s.MaxAttendees, &s.Image, &s.Active,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateService inserts a new service. Returns ErrSlugTaken when the slug is
// already in use.
func (db *DB) CreateService(ctx context.Context, s *Service) (*Service, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE slug = $1)`, s.Slug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if exists {
		return nil, ErrSlugTaken
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO services (id, slug, title, category, description, duration, price, max_attendees, image, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, s.Slug, s.Title, s.Category, s.Description, s.Duration, s.Price,
		s.MaxAttendees, s.Image, s.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return db.GetServiceByID(ctx, id)
}

// GetServiceByID retrieves a service by ID.
func (db *DB) GetServiceByID(ctx context.Context, id string) (*Service, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// GetServiceBySlug retrieves a service by slug.
func (db *DB) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE slug = $1`, slug)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// GetActiveServiceByID retrieves a service only if it is active. The public
// registration flow must never book against a deactivated service.
func (db *DB) GetActiveServiceByID(ctx context.Context, id string) (*Service, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1 AND active = TRUE`, id)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// GetAllServices retrieves services ordered newest first. When includeInactive
// is false only active services are returned. Each service carries its
// schedules (soonest first) and total registration count.
func (db *DB) GetAllServices(ctx context.Context, includeInactive bool) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if !includeInactive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	defer rows.Close()

	var services []*Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}

	for _, s := range services {
		schedules, err := db.GetSchedulesByServiceID(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Schedules = schedules

		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrations WHERE service_id = $1`, s.ID).Scan(&s.RegistrationCount); err != nil {
			return nil, fmt.Errorf("failed to count registrations: %w", err)
		}
	}

	return services, nil
}

// UpdateService applies the non-nil fields. A slug change is rejected with
// ErrSlugTaken when another service already owns the new slug.
func (db *DB) UpdateService(ctx context.Context, id string, upd *ServiceUpdate) (*Service, error) {
	if _, err := db.GetServiceByID(ctx, id); err != nil {
		return nil, err
	}

	if upd.Slug != nil {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM services WHERE slug = $1 AND id <> $2)`,
			*upd.Slug, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if exists {
			return nil, ErrSlugTaken
		}
	}

	_, err := db.ExecContext(ctx,
		`UPDATE services SET
			slug          = COALESCE($2, slug),
			title         = COALESCE($3, title),
			category      = COALESCE($4, category),
			description   = COALESCE($5, description),
			duration      = COALESCE($6, duration),
			price         = COALESCE($7, price),
			max_attendees = COALESCE($8, max_attendees),
			image         = COALESCE($9, image),
			active        = COALESCE($10, active),
			updated_at    = NOW()
		 WHERE id = $1`,
		id, upd.Slug, upd.Title, upd.Category, upd.Description, upd.Duration,
		upd.Price, upd.MaxAttendees, upd.Image, upd.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return db.GetServiceByID(ctx, id)
}

// ServiceUpdate holds the optional fields of a partial service update.
type ServiceUpdate struct {
	Slug         *string
	Title        *string
	Category     *string
	Description  *string
	Duration     *string
	Price        *float64
	MaxAttendees *int
	Image        *string
	Active       *bool
}

// DeleteService removes a service; schedules and registrations cascade per the
// schema constraints.
func (db *DB) DeleteService(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if affected == 0 {
		return ErrServiceNotFound
	}
	return nil
}
