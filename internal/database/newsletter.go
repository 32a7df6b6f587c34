package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Subscribe adds an email to the newsletter list. An address that previously
// unsubscribed is reactivated; an address that is already active returns
// ErrAlreadySubscribed.
func (db *DB) Subscribe(ctx context.Context, email string, name *string) (*Subscriber, error) {
	existing := &Subscriber{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, active, created_at FROM newsletter_subscribers WHERE email = $1`,
		email).Scan(&existing.ID, &existing.Email, &existing.Name, &existing.Active, &existing.CreatedAt)
	switch {
	case err == sql.ErrNoRows:
		id := uuid.NewString()
		_, err := db.ExecContext(ctx,
			`INSERT INTO newsletter_subscribers (id, email, name, active) VALUES ($1, $2, $3, TRUE)`,
			id, email, name)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
		return db.GetSubscriberByID(ctx, id)
	case err != nil:
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	case existing.Active:
		return nil, ErrAlreadySubscribed
	default:
		_, err := db.ExecContext(ctx,
			`UPDATE newsletter_subscribers SET active = TRUE, name = COALESCE($2, name) WHERE id = $1`,
			existing.ID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resubscribe: %w", err)
		}
		return db.GetSubscriberByID(ctx, existing.ID)
	}
}

// GetSubscriberByID retrieves a subscriber by ID.
func (db *DB) GetSubscriberByID(ctx context.Context, id string) (*Subscriber, error) {
	sub := &Subscriber{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, active, created_at FROM newsletter_subscribers WHERE id = $1`,
		id).Scan(&sub.ID, &sub.Email, &sub.Name, &sub.Active, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return sub, nil
}

// GetAllSubscribers lists subscribers, newest first. When activeOnly is true
// unsubscribed addresses are excluded.
func (db *DB) GetAllSubscribers(ctx context.Context, activeOnly bool) ([]*Subscriber, error) {
	query := `SELECT id, email, name, active, created_at FROM newsletter_subscribers`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*Subscriber
	for rows.Next() {
		sub := &Subscriber{}
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Name, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}

	return subs, nil
}
