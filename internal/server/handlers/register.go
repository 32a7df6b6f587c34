package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
	"github.com/tmfg/garden/internal/utils"
)

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	ServiceID  string `json:"serviceId" validate:"required"`
	ScheduleID string `json:"scheduleId"`
}

// HandleRegister accepts a workshop registration. When a schedule is chosen
// the seat is taken atomically with the insert; a full schedule is a 409. The
// confirmation email/SMS is best-effort and never fails the request.
func HandleRegister(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		db := s.GetDB()
		reg, err := db.CreateRegistration(r.Context(), &database.NewRegistration{
			ServiceID:  req.ServiceID,
			ScheduleID: req.ScheduleID,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      normalizePhone(s.GetConfig(), req.Phone),
			Message:    req.Message,
		})
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		s.GetLogger().Info().
			Str("registration_id", reg.ID).
			Str("service_id", reg.ServiceID).
			Msg("registration created")

		sendRegistrationNotifications(r.Context(), s, reg)

		respondJSON(w, http.StatusCreated, map[string]any{
			"message":      "Registration successful",
			"registration": reg,
		})
	}
}

// sendRegistrationNotifications looks up the chosen schedule for the email
// body and fires the confirmation email plus, for an E.164 phone, an SMS.
// Everything here is best-effort.
func sendRegistrationNotifications(ctx context.Context, s Server, reg *database.Registration) {
	db := s.GetDB()

	service, err := db.GetServiceByID(ctx, reg.ServiceID)
	if err != nil {
		s.GetLogger().Warn().Err(err).Msg("skipping registration notifications")
		return
	}

	var scheduleDate, scheduleTime string
	if reg.ScheduleID != nil {
		if schedule, err := db.GetScheduleByID(ctx, *reg.ScheduleID); err == nil {
			scheduleDate = notify.FormatScheduleDate(schedule.Date)
			scheduleTime = schedule.StartTime + " - " + schedule.EndTime
		}
	}

	// Detach from the request deadline; delivery retries may outlive it.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	n := s.GetNotifier()
	n.SendRegistrationConfirmation(sendCtx, reg.Email, reg.Name, service.Title, scheduleDate, scheduleTime)
	if reg.Phone != nil && utils.IsValidE164(*reg.Phone) {
		n.SendRegistrationSMS(sendCtx, *reg.Phone, reg.Name, service.Title, scheduleDate, scheduleTime)
	}
}
