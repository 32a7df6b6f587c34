package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSchedule adds a dated session to a service. availableSpots is the
// staff-set seat budget for this occurrence.
func (db *DB) CreateSchedule(ctx context.Context, serviceID string, date time.Time, startTime, endTime string, availableSpots int) (*Schedule, error) {
	if _, err := db.GetServiceByID(ctx, serviceID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO schedules (id, service_id, date, start_time, end_time, available_spots)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, serviceID, date, startTime, endTime, availableSpots)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	return db.GetScheduleByID(ctx, id)
}

// GetScheduleByID retrieves a schedule by ID.
func (db *DB) GetScheduleByID(ctx context.Context, id string) (*Schedule, error) {
	sch := &Schedule{}
	err := db.QueryRowContext(ctx,
		`SELECT id, service_id, date, start_time, end_time, available_spots
		 FROM schedules WHERE id = $1`, id).
		Scan(&sch.ID, &sch.ServiceID, &sch.Date, &sch.StartTime, &sch.EndTime, &sch.AvailableSpots)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sch, nil
}

// GetSchedulesByServiceID retrieves a service's schedules, soonest first.
func (db *DB) GetSchedulesByServiceID(ctx context.Context, serviceID string) ([]*Schedule, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, service_id, date, start_time, end_time, available_spots
		 FROM schedules WHERE service_id = $1 ORDER BY date ASC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		sch := &Schedule{}
		if err := rows.Scan(&sch.ID, &sch.ServiceID, &sch.Date, &sch.StartTime,
			&sch.EndTime, &sch.AvailableSpots); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return schedules, nil
}

// DeleteSchedule removes a schedule; existing registrations keep a NULL
// schedule reference.
func (db *DB) DeleteSchedule(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// GetSchedulesInWindow retrieves every schedule whose date falls in the
// half-open interval [from, to), joined with its service title and the
// confirmed registrations on it. This feeds the reminder job; pending and
// cancelled registrants are never reminded.
func (db *DB) GetSchedulesInWindow(ctx context.Context, from, to time.Time) ([]*ScheduleWithRegistrations, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sch.id, sch.service_id, sch.date, sch.start_time, sch.end_time, sch.available_spots, s.title
		 FROM schedules sch
		 JOIN services s ON s.id = sch.service_id
		 WHERE sch.date >= $1 AND sch.date < $2
		 ORDER BY sch.date ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules in window: %w", err)
	}
	defer rows.Close()

	var result []*ScheduleWithRegistrations
	for rows.Next() {
		swr := &ScheduleWithRegistrations{}
		if err := rows.Scan(&swr.ID, &swr.ServiceID, &swr.Date, &swr.StartTime,
			&swr.EndTime, &swr.AvailableSpots, &swr.ServiceTitle); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		result = append(result, swr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	for _, swr := range result {
		regs, err := db.getConfirmedRegistrationsBySchedule(ctx, swr.ID)
		if err != nil {
			return nil, err
		}
		swr.Registrations = regs
	}

	return result, nil
}

func (db *DB) getConfirmedRegistrationsBySchedule(ctx context.Context, scheduleID string) ([]*Registration, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE schedule_id = $1 AND status = $2
		 ORDER BY created_at ASC`, scheduleID, StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed registrations: %w", err)
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
