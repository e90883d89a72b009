package models

import (
	"strings"
	"time"
)

// CalendarProvider tags where an event originates or is mirrored.
type CalendarProvider string

const (
	CalendarProviderLocal     CalendarProvider = "LOCAL"
	CalendarProviderGoogle    CalendarProvider = "GOOGLE"
	CalendarProviderApple     CalendarProvider = "APPLE"
	CalendarProviderMicrosoft CalendarProvider = "MICROSOFT"
)

// ParseCalendarProvider maps a raw string to a known provider.
func ParseCalendarProvider(raw string) (CalendarProvider, bool) {
	switch CalendarProvider(strings.ToUpper(raw)) {
	case CalendarProviderLocal, CalendarProviderGoogle, CalendarProviderApple, CalendarProviderMicrosoft:
		return CalendarProvider(strings.ToUpper(raw)), true
	default:
		return "", false
	}
}

// CalendarEvent represents a calendar entry owned by a user. Soft-deleted
// rows keep their attendee links and stay in storage until a hard delete.
type CalendarEvent struct {
	ID             string           `db:"id" json:"id"`
	Title          string           `db:"title" json:"title"`
	Description    string           `db:"description" json:"description,omitempty"`
	StartTime      time.Time        `db:"start_time" json:"start_time"`
	EndTime        time.Time        `db:"end_time" json:"end_time"`
	Location       string           `db:"location" json:"location,omitempty"`
	OwnerID        string           `db:"owner_id" json:"owner_id"`
	ExternalID     *string          `db:"external_id" json:"external_id,omitempty"`
	Provider       CalendarProvider `db:"provider" json:"provider"`
	AllDay         bool             `db:"all_day" json:"all_day"`
	RecurrenceRule string           `db:"recurrence_rule" json:"recurrence_rule,omitempty"`
	Deleted        bool             `db:"deleted" json:"-"`
	DeletedAt      *time.Time       `db:"deleted_at" json:"-"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// Linked reports whether the event is bound to an external provider copy.
func (e *CalendarEvent) Linked() bool {
	return e.Provider != CalendarProviderLocal && e.ExternalID != nil && *e.ExternalID != ""
}

// EventView is the API projection of an event with nested participants.
type EventView struct {
	CalendarEvent
	Owner     UserSummary   `json:"owner"`
	Attendees []UserSummary `json:"attendees"`
}
