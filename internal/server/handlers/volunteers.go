package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmfg/garden/internal/database"
)

type volunteerRequest struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone"`
	Availability string   `json:"availability" validate:"required"`
	Interests    []string `json:"interests"`
	Experience   string   `json:"experience"`
	Message      string   `json:"message"`
}

// HandleVolunteerSignup records a volunteer application and sends a welcome
// email plus an admin notification, both best-effort.
func HandleVolunteerSignup(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req volunteerRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		v := &database.Volunteer{
			Name:         req.Name,
			Email:        req.Email,
			Availability: req.Availability,
			Interests:    req.Interests,
		}
		if req.Phone != "" {
			phone := normalizePhone(s.GetConfig(), req.Phone)
			v.Phone = &phone
		}
		if req.Experience != "" {
			v.Experience = &req.Experience
		}
		if req.Message != "" {
			v.Message = &req.Message
		}

		created, err := s.GetDB().CreateVolunteer(r.Context(), v)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		s.GetLogger().Info().Str("volunteer_id", created.ID).Msg("volunteer application received")

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 30*time.Second)
		defer cancel()
		n := s.GetNotifier()
		n.SendVolunteerWelcome(sendCtx, created.Email, created.Name)
		n.SendAdminAlert(sendCtx, "New Volunteer Registration",
			fmt.Sprintf("New volunteer registered:\n\nName: %s\nEmail: %s\nAvailability: %s\nInterests: %s",
				created.Name, created.Email, created.Availability, strings.Join(created.Interests, ", ")))

		respondJSON(w, http.StatusCreated, map[string]any{
			"message":   "Volunteer registration successful",
			"volunteer": created,
		})
	}
}

// HandleListVolunteers returns volunteers, optionally filtered by ?status= or
// narrowed to one record with ?id=.
func HandleListVolunteers(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("id"); id != "" {
			v, err := s.GetDB().GetVolunteerByID(r.Context(), id)
			if err != nil {
				respondDBError(w, s.GetLogger(), err)
				return
			}
			respondJSON(w, http.StatusOK, v)
			return
		}

		volunteers, err := s.GetDB().GetAllVolunteers(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"volunteers": volunteers})
	}
}
