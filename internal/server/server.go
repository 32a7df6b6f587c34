package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/tmfg/garden/internal/config"
	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
	"github.com/tmfg/garden/internal/server/handlers"
)

type Server struct {
	config       *config.Config
	db           *database.DB
	notifier     *notify.Notifier
	log          zerolog.Logger
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
}

// GetDB implements handlers.Server interface
func (s *Server) GetDB() *database.DB {
	return s.db
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// GetNotifier implements handlers.Server interface
func (s *Server) GetNotifier() *notify.Notifier {
	return s.notifier
}

// GetLogger implements handlers.Server interface
func (s *Server) GetLogger() *zerolog.Logger {
	return &s.log
}

// GetCurrentUser implements handlers.AdminServer interface
func (s *Server) GetCurrentUser(r *http.Request) (string, string) {
	session, _ := s.sessionStore.Get(r, "auth-session")
	email, _ := session.Values["email"].(string)
	name, _ := session.Values["name"].(string)
	return email, name
}

func New(cfg *config.Config, db *database.DB, notifier *notify.Notifier, log zerolog.Logger) *Server {
	s := &Server{
		config:       cfg,
		db:           db,
		notifier:     notifier,
		log:          log,
		sessionStore: sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		router:       http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Uploaded images
	fs := http.FileServer(http.Dir(s.config.UploadDir))
	s.router.Handle("GET /uploads/", http.StripPrefix("/uploads/", fs))

	// Public routes
	s.router.HandleFunc("GET /api/services", handlers.HandleListServices(s))
	s.router.HandleFunc("GET /api/services/{slug}", handlers.HandleGetService(s))
	s.router.HandleFunc("POST /api/services/register", handlers.HandleRegister(s))
	s.router.HandleFunc("GET /api/blog", handlers.HandleListBlogPosts(s))
	s.router.HandleFunc("POST /api/volunteers", handlers.HandleVolunteerSignup(s))
	s.router.HandleFunc("POST /api/newsletter", handlers.HandleNewsletterSubscribe(s))
	s.router.HandleFunc("POST /api/donations/create-payment-intent", handlers.HandleCreateCheckoutSession(s))
	s.router.HandleFunc("POST /api/webhooks/stripe", handlers.HandleStripeWebhook(s))

	// Cron routes (protected by the shared secret)
	s.router.HandleFunc("GET /api/cron/send-reminders", s.requireCronSecret(handlers.HandleSendReminders(s)))
	s.router.HandleFunc("POST /api/cron/confirm-registrations", s.requireCronSecret(handlers.HandleAutoConfirm(s)))

	// Auth routes
	s.router.HandleFunc("/auth/google", s.handleGoogleLogin)
	s.router.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.router.HandleFunc("/auth/logout", s.handleLogout)

	// Admin routes (protected)
	s.router.HandleFunc("GET /api/admin/stats", s.requireAuth(handlers.HandleAdminStats(s)))
	s.router.HandleFunc("GET /api/admin/services", s.requireAuth(handlers.HandleAdminListServices(s)))
	s.router.HandleFunc("POST /api/admin/services", s.requireAuth(handlers.HandleAdminCreateService(s)))
	s.router.HandleFunc("GET /api/admin/services/{id}", s.requireAuth(handlers.HandleAdminGetService(s)))
	s.router.HandleFunc("PATCH /api/admin/services/{id}", s.requireAuth(handlers.HandleAdminUpdateService(s)))
	s.router.HandleFunc("DELETE /api/admin/services/{id}", s.requireAuth(handlers.HandleAdminDeleteService(s)))
	s.router.HandleFunc("POST /api/admin/services/{id}/schedules", s.requireAuth(handlers.HandleAdminCreateSchedule(s)))
	s.router.HandleFunc("DELETE /api/admin/schedules/{id}", s.requireAuth(handlers.HandleAdminDeleteSchedule(s)))
	s.router.HandleFunc("GET /api/admin/blog", s.requireAuth(handlers.HandleListBlogPosts(s)))
	s.router.HandleFunc("POST /api/admin/blog", s.requireAuth(handlers.HandleAdminCreateBlogPost(s)))
	s.router.HandleFunc("PATCH /api/admin/blog/{id}", s.requireAuth(handlers.HandleAdminUpdateBlogPost(s)))
	s.router.HandleFunc("DELETE /api/admin/blog/{id}", s.requireAuth(handlers.HandleAdminDeleteBlogPost(s)))
	s.router.HandleFunc("GET /api/admin/volunteers", s.requireAuth(handlers.HandleListVolunteers(s)))
	s.router.HandleFunc("PATCH /api/admin/volunteers/{id}", s.requireAuth(handlers.HandleAdminUpdateVolunteer(s)))
	s.router.HandleFunc("GET /api/admin/registrations", s.requireAuth(handlers.HandleAdminListRegistrations(s)))
	s.router.HandleFunc("PATCH /api/admin/registrations/{id}", s.requireAuth(handlers.HandleAdminUpdateRegistration(s)))
	s.router.HandleFunc("GET /api/admin/donations", s.requireAuth(handlers.HandleAdminListDonations(s)))
	s.router.HandleFunc("GET /api/admin/newsletter", s.requireAuth(handlers.HandleAdminListSubscribers(s)))
	s.router.HandleFunc("GET /api/admin/newsletter/export", s.requireAuth(handlers.HandleAdminExportSubscribers(s)))
	s.router.HandleFunc("POST /api/admin/upload", s.requireAuth(handlers.HandleAdminUpload(s)))
	s.router.HandleFunc("GET /api/admin/me", s.requireAuth(s.handleMe))
}

// Handler returns the router wrapped with CORS for the frontend origin.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

// requireCronSecret guards the scheduled-job endpoints. The caller must send
// Authorization: Bearer <CRON_SECRET>; anything else is rejected before any
// database work happens.
func (s *Server) requireCronSecret(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.config.CronSecret)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next(w, r)
	}
}

// requireAuth is a middleware that checks if user is authenticated
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessionStore.Get(r, "auth-session")

		email, ok := session.Values["email"].(string)
		if !ok || email == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}

		// Check if email is in whitelist
		if !s.config.IsAdminEmail(email) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}

		next(w, r)
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	email, name := s.GetCurrentUser(r)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"email": email, "name": name})
}
