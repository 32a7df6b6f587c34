package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests below run CreateRegistration and the confirmation sweep against a
// scripted driver so the transaction behavior (conditional seat decrement,
// rollback on a full schedule, commit ordering) can be asserted without a
// postgres instance.

type fakeScript struct {
	mu sync.Mutex

	serviceActive  bool
	scheduleExists bool
	seatAffected   int64
	sweepAffected  []int64

	execs      []string
	insertArgs []driver.Value
	committed  bool
	rolledBack bool
}

var (
	scriptsMu sync.Mutex
	scripts   = map[string]*fakeScript{}
)

type fakeDriver struct{}

func (fakeDriver) Open(name string) (driver.Conn, error) {
	scriptsMu.Lock()
	defer scriptsMu.Unlock()
	return &fakeConn{script: scripts[name]}, nil
}

func init() {
	sql.Register("fakedb", fakeDriver{})
}

var fakeDBCount int

func newFakeDB(t *testing.T, script *fakeScript) *DB {
	t.Helper()
	scriptsMu.Lock()
	fakeDBCount++
	name := fmt.Sprintf("script-%d", fakeDBCount)
	scripts[name] = script
	scriptsMu.Unlock()

	sqlDB, err := sql.Open("fakedb", name)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &DB{DB: sqlDB}
}

type fakeConn struct {
	script *fakeScript
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not supported: %s", query)
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return &fakeTx{script: c.script}, nil
}

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	s := c.script
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execs = append(s.execs, query)

	switch {
	case strings.Contains(query, "INSERT INTO registrations"):
		s.insertArgs = make([]driver.Value, len(args))
		for i, a := range args {
			s.insertArgs[i] = a.Value
		}
		return driver.RowsAffected(1), nil

	case strings.Contains(query, "UPDATE schedules"):
		return driver.RowsAffected(s.seatAffected), nil

	case strings.Contains(query, "UPDATE registrations SET status"):
		if len(s.sweepAffected) == 0 {
			return driver.RowsAffected(0), nil
		}
		affected := s.sweepAffected[0]
		s.sweepAffected = s.sweepAffected[1:]
		return driver.RowsAffected(affected), nil
	}
	return driver.RowsAffected(0), nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	s := c.script
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.Contains(query, "FROM services"):
		if !s.serviceActive {
			return emptyRows(strings.Split(serviceColumns, ", ")), nil
		}
		now := time.Now()
		return &fakeRows{
			columns: strings.Split(serviceColumns, ", "),
			data: [][]driver.Value{{
				"svc-1", "composting-workshop", "Composting Workshop", "All Levels",
				"Turn scraps into compost", nil, nil, nil, nil, true, now, now,
			}},
		}, nil

	case strings.Contains(query, "SELECT EXISTS"):
		return &fakeRows{
			columns: []string{"exists"},
			data:    [][]driver.Value{{s.scheduleExists}},
		}, nil

	case strings.Contains(query, "FROM registrations"):
		if s.insertArgs == nil || s.rolledBack {
			return emptyRows(strings.Split(registrationColumns, ", ")), nil
		}
		row := make([]driver.Value, 0, 9)
		row = append(row, s.insertArgs...)
		row = append(row, time.Now())
		return &fakeRows{
			columns: strings.Split(registrationColumns, ", "),
			data:    [][]driver.Value{row},
		}, nil

	case strings.Contains(query, "FROM newsletter_subscribers"):
		return emptyRows([]string{"id", "email", "name", "active", "created_at"}), nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

type fakeTx struct {
	script *fakeScript
}

func (t *fakeTx) Commit() error {
	t.script.mu.Lock()
	defer t.script.mu.Unlock()
	t.script.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.script.mu.Lock()
	defer t.script.mu.Unlock()
	t.script.rolledBack = true
	return nil
}

type fakeRows struct {
	columns []string
	data    [][]driver.Value
	idx     int
}

func emptyRows(columns []string) *fakeRows {
	return &fakeRows{columns: columns}
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.idx])
	r.idx++
	return nil
}

func (s *fakeScript) execMatching(substr string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []string
	for _, q := range s.execs {
		if strings.Contains(q, substr) {
			matched = append(matched, q)
		}
	}
	return matched
}

func TestCreateRegistrationTakesSeat(t *testing.T) {
	script := &fakeScript{serviceActive: true, scheduleExists: true, seatAffected: 1}
	db := newFakeDB(t, script)

	reg, err := db.CreateRegistration(context.Background(), &NewRegistration{
		ServiceID:  "svc-1",
		ScheduleID: "sch-1",
		Name:       "Ana",
		Email:      "ana@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, reg.Status)
	assert.Equal(t, "Ana", reg.Name)

	// The seat is taken with a conditional decrement, never unconditionally.
	updates := script.execMatching("UPDATE schedules")
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "available_spots - 1")
	assert.Contains(t, updates[0], "available_spots > 0")

	assert.True(t, script.committed)
	assert.False(t, script.rolledBack)
}

func TestCreateRegistrationFullScheduleRollsBack(t *testing.T) {
	script := &fakeScript{serviceActive: true, scheduleExists: true, seatAffected: 0}
	db := newFakeDB(t, script)

	_, err := db.CreateRegistration(context.Background(), &NewRegistration{
		ServiceID:  "svc-1",
		ScheduleID: "sch-1",
		Name:       "Ben",
		Email:      "ben@example.com",
	})

	assert.ErrorIs(t, err, ErrScheduleFull)

	// The pending insert must not survive the failed seat grab.
	assert.Len(t, script.execMatching("INSERT INTO registrations"), 1)
	assert.True(t, script.rolledBack)
	assert.False(t, script.committed)
}

func TestCreateRegistrationWithoutSchedule(t *testing.T) {
	script := &fakeScript{serviceActive: true, seatAffected: 0}
	db := newFakeDB(t, script)

	reg, err := db.CreateRegistration(context.Background(), &NewRegistration{
		ServiceID: "svc-1",
		Name:      "Carla",
		Email:     "carla@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, reg.Status)
	assert.Nil(t, reg.ScheduleID)

	// No schedule chosen means no seat accounting at all.
	assert.Empty(t, script.execMatching("UPDATE schedules"))
	assert.True(t, script.committed)
}

func TestCreateRegistrationInactiveService(t *testing.T) {
	script := &fakeScript{serviceActive: false}
	db := newFakeDB(t, script)

	_, err := db.CreateRegistration(context.Background(), &NewRegistration{
		ServiceID: "svc-gone",
		Name:      "Dan",
		Email:     "dan@example.com",
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Empty(t, script.execs)
}

func TestCreateRegistrationScheduleFromOtherService(t *testing.T) {
	script := &fakeScript{serviceActive: true, scheduleExists: false}
	db := newFakeDB(t, script)

	_, err := db.CreateRegistration(context.Background(), &NewRegistration{
		ServiceID:  "svc-1",
		ScheduleID: "sch-other",
		Name:       "Eva",
		Email:      "eva@example.com",
	})

	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.Empty(t, script.execs)
}

func TestConfirmStaleRegistrationsIdempotent(t *testing.T) {
	script := &fakeScript{sweepAffected: []int64{3, 0}}
	db := newFakeDB(t, script)
	cutoff := time.Now().Add(-time.Hour)

	confirmed, err := db.ConfirmStaleRegistrations(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), confirmed)

	// A rerun with nothing left to promote reports zero and is not an error.
	confirmed, err = db.ConfirmStaleRegistrations(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), confirmed)

	sweeps := script.execMatching("UPDATE registrations SET status")
	require.Len(t, sweeps, 2)
	assert.Contains(t, sweeps[0], "status = $2")
}

func TestGetSubscriberByIDMissing(t *testing.T) {
	db := newFakeDB(t, &fakeScript{})

	_, err := db.GetSubscriberByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}
