package database

import (
	"context"
	"fmt"
)

// GetDashboardStats aggregates the counters shown on the admin landing page.
func (db *DB) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM services WHERE active = TRUE`, &stats.ActiveServices},
		{`SELECT COUNT(*) FROM blog_posts WHERE published = TRUE`, &stats.PublishedBlogPosts},
		{`SELECT COUNT(*) FROM volunteers`, &stats.TotalVolunteers},
		{`SELECT COUNT(*) FROM volunteers WHERE status = 'pending'`, &stats.PendingVolunteers},
		{`SELECT COUNT(*) FROM registrations`, &stats.TotalRegistrations},
		{`SELECT COUNT(*) FROM registrations WHERE status = 'pending'`, &stats.PendingRegistrations},
		{`SELECT COUNT(*) FROM donations`, &stats.TotalDonations},
		{`SELECT COUNT(*) FROM newsletter_subscribers WHERE active = TRUE`, &stats.ActiveSubscribers},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'succeeded'`).
		Scan(&stats.TotalDonationAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}

	return stats, nil
}
