package models

import "time"

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
	Location       string    `json:"location"`
	Provider       string    `json:"provider"`
	AllDay         bool      `json:"all_day"`
	RecurrenceRule string    `json:"recurrence_rule"`
	AttendeeIDs    []string  `json:"attendee_ids"`
}

// UpdateEventRequest is the payload for partial event updates. Nil fields
// keep their stored values.
type UpdateEventRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Location       *string    `json:"location"`
	AllDay         *bool      `json:"all_day"`
	RecurrenceRule *string    `json:"recurrence_rule"`
	AttendeeIDs    *[]string  `json:"attendee_ids"`
}

// UpdateUserRequest is the payload for profile updates.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	PictureURL *string `json:"picture_url"`
}

// ProviderEvent is an event as reported by an external calendar provider,
// normalized for reconciliation.
type ProviderEvent struct {
	ExternalID     string
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	Location       string
	AllDay         bool
	RecurrenceRule string
}

// SyncResult summarizes one reconciliation pass against a provider.
type SyncResult struct {
	Provider CalendarProvider `json:"provider"`
	Fetched  int              `json:"fetched"`
	Created  int              `json:"created"`
	Updated  int              `json:"updated"`
	Deleted  int              `json:"deleted"`
}
