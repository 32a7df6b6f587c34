package database

import "errors"

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrScheduleFull         = errors.New("no available spots for this schedule")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrVolunteerNotFound    = errors.New("volunteer not found")
	ErrPostNotFound         = errors.New("blog post not found")
	ErrSubscriberNotFound   = errors.New("subscriber not found")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrAlreadySubscribed    = errors.New("email already subscribed")
)
