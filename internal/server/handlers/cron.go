package handlers

import (
	"net/http"
	"time"

	"github.com/tmfg/garden/internal/reminder"
)

// StalenessThreshold is how long a registration may sit in pending before the
// sweep promotes it to confirmed.
const StalenessThreshold = time.Hour

// HandleSendReminders runs the reminder scan-and-dispatch job: find every
// schedule dated tomorrow and notify its confirmed registrants. Invoked by an
// external cron; bearer auth happens in the router before any database read.
func HandleSendReminders(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := reminder.TomorrowWindow(time.Now())

		schedules, err := s.GetDB().GetSchedulesInWindow(r.Context(), from, to)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		stats := reminder.Dispatch(r.Context(), schedules, s.GetNotifier())

		s.GetLogger().Info().
			Int("schedules_found", stats.SchedulesFound).
			Int64("emails_sent", stats.EmailsSent).
			Int64("emails_failed", stats.EmailsFailed).
			Int64("sms_sent", stats.SMSSent).
			Int64("sms_failed", stats.SMSFailed).
			Msg("reminder job completed")

		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Reminder job completed",
			"stats":   stats,
		})
	}
}

// HandleAutoConfirm promotes registrations stuck in pending for longer than
// the staleness threshold to confirmed. Idempotent: a second run with no new
// registrations confirms zero rows.
func HandleAutoConfirm(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cutoff := time.Now().Add(-StalenessThreshold)

		confirmed, err := s.GetDB().ConfirmStaleRegistrations(r.Context(), cutoff)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		s.GetLogger().Info().Int64("confirmed", confirmed).Msg("auto-confirmation completed")

		respondJSON(w, http.StatusOK, map[string]any{
			"message":   "Auto-confirmation completed",
			"confirmed": confirmed,
		})
	}
}
