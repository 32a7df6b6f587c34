// Package reminder dispatches next-day session reminders to confirmed
// registrants.
package reminder

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
	"github.com/tmfg/garden/internal/utils"
)

// Stats summarizes one reminder run. Counters cover every registrant across
// every schedule in the window.
type Stats struct {
	SchedulesFound int   `json:"schedulesFound"`
	EmailsSent     int64 `json:"emailsSent"`
	EmailsFailed   int64 `json:"emailsFailed"`
	SMSSent        int64 `json:"smsSent"`
	SMSFailed      int64 `json:"smsFailed"`
}

// TomorrowWindow returns the half-open calendar-day interval
// [midnight+1d, midnight+2d) relative to now, in now's location.
func TomorrowWindow(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	from := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 0, 1)
}

const maxConcurrentSends = 8

// Dispatch notifies every confirmed registrant on the given schedules. Each
// registrant gets an email attempt and, when their phone passes the E.164
// gate, an SMS attempt; the two channels succeed or fail independently and no
// failure stops the run. Registrants are processed concurrently with a bound
// on in-flight sends.
func Dispatch(ctx context.Context, schedules []*database.ScheduleWithRegistrations, n *notify.Notifier) *Stats {
	stats := &Stats{SchedulesFound: len(schedules)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)

	for _, schedule := range schedules {
		scheduleDate := notify.FormatScheduleDate(schedule.Date)
		scheduleTime := schedule.StartTime + " - " + schedule.EndTime
		serviceTitle := schedule.ServiceTitle

		for _, reg := range schedule.Registrations {
			reg := reg
			g.Go(func() error {
				if n.SendReminderEmail(ctx, reg.Email, reg.Name, serviceTitle, scheduleDate, scheduleTime) {
					atomic.AddInt64(&stats.EmailsSent, 1)
				} else {
					atomic.AddInt64(&stats.EmailsFailed, 1)
				}

				if reg.Phone != nil && utils.IsValidE164(*reg.Phone) {
					if n.SendReminderSMS(ctx, *reg.Phone, reg.Name, serviceTitle, scheduleDate, scheduleTime) {
						atomic.AddInt64(&stats.SMSSent, 1)
					} else {
						atomic.AddInt64(&stats.SMSFailed, 1)
					}
				}
				return nil
			})
		}
	}

	_ = g.Wait() // workers never return errors; failures live in the counters
	return stats
}
