package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tmfg/garden/internal/config"
	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
	"github.com/tmfg/garden/internal/utils"
)

// Server is what every handler needs from the surrounding server.
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
	GetNotifier() *notify.Notifier
	GetLogger() *zerolog.Logger
}

// AdminServer extends Server with the identity of the logged-in staff member.
type AdminServer interface {
	Server
	GetCurrentUser(r *http.Request) (email, name string)
}

var validate = validator.New()

// decodeJSON parses the request body into dst and validates its tags. Returns
// false after writing a 400 response on any failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return false
	}
	return true
}

// normalizePhone converts a user-entered phone number to E.164 so that
// locally formatted numbers pass the SMS gate later. Phone is an optional
// field; a number that cannot be parsed is stored as entered rather than
// failing the intake.
func normalizePhone(cfg *config.Config, phone string) string {
	if phone == "" {
		return ""
	}
	normalized, err := utils.NormalizePhoneNumber(phone, cfg.DefaultRegion)
	if err != nil {
		return phone
	}
	return normalized
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDBError maps the database sentinels onto the HTTP error taxonomy:
// not-found lookups are 404, slug and subscription collisions are 409, a full
// schedule is 409, anything else is a logged 500 with a generic body.
func respondDBError(w http.ResponseWriter, log *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, database.ErrServiceNotFound),
		errors.Is(err, database.ErrScheduleNotFound),
		errors.Is(err, database.ErrRegistrationNotFound),
		errors.Is(err, database.ErrVolunteerNotFound),
		errors.Is(err, database.ErrPostNotFound),
		errors.Is(err, database.ErrSubscriberNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrScheduleFull):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrSlugTaken),
		errors.Is(err, database.ErrAlreadySubscribed):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("database operation failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
