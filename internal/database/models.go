package database

import (
	"time"
)

// Registration statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Volunteer statuses.
const (
	VolunteerPending  = "pending"
	VolunteerApproved = "approved"
	VolunteerDeclined = "declined"
)

type Service struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Duration     *string   `json:"duration"`
	Price        *float64  `json:"price"`
	MaxAttendees *int      `json:"maxAttendees"`
	Image        *string   `json:"image"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Schedules         []*Schedule `json:"schedules,omitempty"`
	RegistrationCount int         `json:"registrationCount,omitempty"`
}

type Schedule struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"serviceId"`
	Date           time.Time `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	AvailableSpots int       `json:"availableSpots"`
}

type Registration struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	ScheduleID *string   `json:"scheduleId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Message    *string   `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Volunteer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	Availability string    `json:"availability"`
	Interests    []string  `json:"interests"`
	Experience   *string   `json:"experience"`
	Message      *string   `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type BlogPost struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Author      string     `json:"author"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	Image       *string    `json:"image"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Donation struct {
	ID              string    `json:"id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	DonorName       string    `json:"donorName"`
	DonorEmail      string    `json:"donorEmail"`
	StripePaymentID string    `json:"stripePaymentId"`
	Status          string    `json:"status"`
	Message         *string   `json:"message"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduleWithRegistrations is what the reminder job works on: one dated
// session, its owning service title, and the confirmed registrants.
type ScheduleWithRegistrations struct {
	Schedule
	ServiceTitle  string
	Registrations []*Registration
}

// DashboardStats aggregates the admin landing page counters.
type DashboardStats struct {
	ActiveServices       int     `json:"activeServices"`
	PublishedBlogPosts   int     `json:"publishedBlogPosts"`
	TotalVolunteers      int     `json:"totalVolunteers"`
	PendingVolunteers    int     `json:"pendingVolunteers"`
	TotalRegistrations   int     `json:"totalRegistrations"`
	PendingRegistrations int     `json:"pendingRegistrations"`
	TotalDonations       int     `json:"totalDonations"`
	TotalDonationAmount  float64 `json:"totalDonationAmount"`
	ActiveSubscribers    int     `json:"activeSubscribers"`
}
