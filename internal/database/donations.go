package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateDonation records a donation confirmed by the payment provider. Rows
// are only ever created from the webhook path, never speculatively.
func (db *DB) CreateDonation(ctx context.Context, d *Donation) (*Donation, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO donations (id, amount, currency, donor_name, donor_email, stripe_payment_id, status, message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, d.Amount, d.Currency, d.DonorName, d.DonorEmail, d.StripePaymentID,
		d.Status, d.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	created := *d
	created.ID = id
	row := db.QueryRowContext(ctx,
		`SELECT created_at FROM donations WHERE id = $1`, id)
	if err := row.Scan(&created.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return &created, nil
}

// GetAllDonations lists donations newest first.
func (db *DB) GetAllDonations(ctx context.Context) ([]*Donation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, amount, currency, donor_name, donor_email, stripe_payment_id, status, message, created_at
		 FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get donations: %w", err)
	}
	defer rows.Close()

	var donations []*Donation
	for rows.Next() {
		d := &Donation{}
		if err := rows.Scan(&d.ID, &d.Amount, &d.Currency, &d.DonorName,
			&d.DonorEmail, &d.StripePaymentID, &d.Status, &d.Message, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate donations: %w", err)
	}

	return donations, nil
}
