package handlers

import (
	"net/http"
)

// HandleListServices returns the active services with their upcoming
// schedules, for the public services page.
func HandleListServices(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := s.GetDB().GetAllServices(r.Context(), false)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"services": services})
	}
}

// HandleGetService returns one service by slug, e.g. /api/services/composting-workshop.
func HandleGetService(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		if slug == "" {
			respondError(w, http.StatusBadRequest, "Service slug is required")
			return
		}

		service, err := s.GetDB().GetServiceBySlug(r.Context(), slug)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		schedules, err := s.GetDB().GetSchedulesByServiceID(r.Context(), service.ID)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		service.Schedules = schedules

		respondJSON(w, http.StatusOK, map[string]any{"service": service})
	}
}

// HandleListBlogPosts returns blog posts. ?published=true filters to
// published posts only; ?slug= returns a single post.
func HandleListBlogPosts(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if slug := r.URL.Query().Get("slug"); slug != "" {
			post, err := s.GetDB().GetBlogPostBySlug(r.Context(), slug)
			if err != nil {
				respondDBError(w, s.GetLogger(), err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{"post": post})
			return
		}

		publishedOnly := r.URL.Query().Get("published") == "true"
		posts, err := s.GetDB().GetAllBlogPosts(r.Context(), publishedOnly)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
	}
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// HandleNewsletterSubscribe adds an email to the newsletter list. An address
// that is already active is a 409; a previously unsubscribed address is
// quietly reactivated.
func HandleNewsletterSubscribe(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		var name *string
		if req.Name != "" {
			name = &req.Name
		}

		sub, err := s.GetDB().Subscribe(r.Context(), req.Email, name)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"message":    "Subscribed successfully",
			"subscriber": sub,
		})
	}
}
