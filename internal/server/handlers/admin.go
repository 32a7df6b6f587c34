package handlers

import (
	"net/http"
	"time"

	"github.com/tmfg/garden/internal/database"
)

// HandleAdminStats returns the dashboard counters.
func HandleAdminStats(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.GetDB().GetDashboardStats(r.Context())
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

type serviceRequest struct {
	Title        string   `json:"title" validate:"required"`
	Slug         string   `json:"slug" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Duration     string   `json:"duration"`
	Price        *float64 `json:"price"`
	MaxAttendees *int     `json:"maxAttendees"`
	Image        string   `json:"image"`
	Active       *bool    `json:"active"`
}

// HandleAdminCreateService creates a workshop offering. Duplicate slugs are a
// 409.
func HandleAdminCreateService(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		svc := &database.Service{
			Title:        req.Title,
			Slug:         req.Slug,
			Description:  req.Description,
			Category:     req.Category,
			Price:        req.Price,
			MaxAttendees: req.MaxAttendees,
			Active:       true,
		}
		if req.Duration != "" {
			svc.Duration = &req.Duration
		}
		if req.Image != "" {
			svc.Image = &req.Image
		}
		if req.Active != nil {
			svc.Active = *req.Active
		}

		created, err := s.GetDB().CreateService(r.Context(), svc)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"message": "Service created successfully",
			"service": created,
		})
	}
}

// HandleAdminListServices lists services including inactive ones when
// ?includeInactive=true.
func HandleAdminListServices(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := r.URL.Query().Get("includeInactive") == "true"
		services, err := s.GetDB().GetAllServices(r.Context(), includeInactive)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"services": services})
	}
}

// HandleAdminGetService returns one service with schedules and registrations.
func HandleAdminGetService(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		db := s.GetDB()

		service, err := db.GetServiceByID(r.Context(), id)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		schedules, err := db.GetSchedulesByServiceID(r.Context(), id)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		service.Schedules = schedules

		registrations, err := db.GetAllRegistrations(r.Context(), "", id)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"service":       service,
			"registrations": registrations,
		})
	}
}

type serviceUpdateRequest struct {
	Title        *string  `json:"title"`
	Slug         *string  `json:"slug"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Duration     *string  `json:"duration"`
	Price        *float64 `json:"price"`
	MaxAttendees *int     `json:"maxAttendees"`
	Image        *string  `json:"image"`
	Active       *bool    `json:"active"`
}

// HandleAdminUpdateService applies a partial update to a service.
func HandleAdminUpdateService(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		updated, err := s.GetDB().UpdateService(r.Context(), r.PathValue("id"), &database.ServiceUpdate{
			Slug:         req.Slug,
			Title:        req.Title,
			Category:     req.Category,
			Description:  req.Description,
			Duration:     req.Duration,
			Price:        req.Price,
			MaxAttendees: req.MaxAttendees,
			Image:        req.Image,
			Active:       req.Active,
		})
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Service updated successfully",
			"service": updated,
		})
	}
}

// HandleAdminDeleteService removes a service and its schedules.
func HandleAdminDeleteService(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().DeleteService(r.Context(), r.PathValue("id")); err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
	}
}

type scheduleRequest struct {
	Date           time.Time `json:"date" validate:"required"`
	StartTime      string    `json:"startTime" validate:"required"`
	EndTime        string    `json:"endTime" validate:"required"`
	AvailableSpots int       `json:"availableSpots" validate:"gte=0"`
}

// HandleAdminCreateSchedule adds a dated session to a service.
func HandleAdminCreateSchedule(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		schedule, err := s.GetDB().CreateSchedule(r.Context(), r.PathValue("id"),
			req.Date, req.StartTime, req.EndTime, req.AvailableSpots)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"message":  "Schedule created successfully",
			"schedule": schedule,
		})
	}
}

// HandleAdminDeleteSchedule removes a schedule.
func HandleAdminDeleteSchedule(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().DeleteSchedule(r.Context(), r.PathValue("id")); err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted successfully"})
	}
}

type blogPostRequest struct {
	Title     string   `json:"title" validate:"required"`
	Slug      string   `json:"slug" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Excerpt   string   `json:"excerpt"`
	Author    string   `json:"author" validate:"required"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Image     string   `json:"image"`
	Published bool     `json:"published"`
}

// HandleAdminCreateBlogPost creates a post; publishing stamps publishedAt.
func HandleAdminCreateBlogPost(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogPostRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		post := &database.BlogPost{
			Title:     req.Title,
			Slug:      req.Slug,
			Content:   req.Content,
			Author:    req.Author,
			Tags:      req.Tags,
			Published: req.Published,
		}
		if req.Excerpt != "" {
			post.Excerpt = &req.Excerpt
		}
		if req.Category != "" {
			post.Category = &req.Category
		}
		if req.Image != "" {
			post.Image = &req.Image
		}

		created, err := s.GetDB().CreateBlogPost(r.Context(), post)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"message": "Blog post created successfully",
			"post":    created,
		})
	}
}

type blogPostUpdateRequest struct {
	Title     *string  `json:"title"`
	Slug      *string  `json:"slug"`
	Content   *string  `json:"content"`
	Excerpt   *string  `json:"excerpt"`
	Author    *string  `json:"author"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image"`
	Published *bool    `json:"published"`
}

// HandleAdminUpdateBlogPost applies a partial update to a post.
func HandleAdminUpdateBlogPost(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogPostUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		updated, err := s.GetDB().UpdateBlogPost(r.Context(), r.PathValue("id"), &database.BlogPostUpdate{
			Slug:      req.Slug,
			Title:     req.Title,
			Content:   req.Content,
			Excerpt:   req.Excerpt,
			Author:    req.Author,
			Category:  req.Category,
			Tags:      req.Tags,
			Image:     req.Image,
			Published: req.Published,
		})
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Blog post updated successfully",
			"post":    updated,
		})
	}
}

// HandleAdminDeleteBlogPost removes a post.
func HandleAdminDeleteBlogPost(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().DeleteBlogPost(r.Context(), r.PathValue("id")); err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleAdminUpdateVolunteer sets a volunteer's status.
func HandleAdminUpdateVolunteer(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Status != database.VolunteerPending &&
			req.Status != database.VolunteerApproved &&
			req.Status != database.VolunteerDeclined {
			respondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		v, err := s.GetDB().UpdateVolunteerStatus(r.Context(), r.PathValue("id"), req.Status)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"volunteer": v})
	}
}

// HandleAdminListRegistrations lists registrations with optional ?status= and
// ?serviceId= filters.
func HandleAdminListRegistrations(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := s.GetDB().GetAllRegistrations(r.Context(),
			r.URL.Query().Get("status"), r.URL.Query().Get("serviceId"))
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"registrations": regs})
	}
}

// HandleAdminUpdateRegistration lets staff confirm or cancel a registration.
// No seat is returned on cancellation.
func HandleAdminUpdateRegistration(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Status != database.StatusPending &&
			req.Status != database.StatusConfirmed &&
			req.Status != database.StatusCancelled {
			respondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		reg, err := s.GetDB().UpdateRegistrationStatus(r.Context(), r.PathValue("id"), req.Status)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"registration": reg})
	}
}

// HandleAdminListDonations lists recorded donations.
func HandleAdminListDonations(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donations, err := s.GetDB().GetAllDonations(r.Context())
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"donations": donations})
	}
}

// HandleAdminListSubscribers lists newsletter subscribers.
func HandleAdminListSubscribers(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("activeOnly") == "true"
		subs, err := s.GetDB().GetAllSubscribers(r.Context(), activeOnly)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"subscribers": subs})
	}
}
