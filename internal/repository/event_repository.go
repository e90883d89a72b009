package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/where2play/calendar-api/internal/models"
)

const eventColumns = `id, title, description, start_time, end_time, location, owner_id, external_id, provider, all_day, recurrence_rule, deleted, deleted_at, created_at, updated_at`

const eventColumnsPrefixed = `e.id, e.title, e.description, e.start_time, e.end_time, e.location, e.owner_id, e.external_id, e.provider, e.all_day, e.recurrence_rule, e.deleted, e.deleted_at, e.created_at, e.updated_at`

// EventRepository provides database access for calendar events and their
// attendee links.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts the event and its attendee links in one transaction.
func (r *EventRepository) Create(ctx context.Context, event *models.CalendarEvent, attendeeIDs []string) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if event.Provider == "" {
		event.Provider = models.CalendarProviderLocal
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create event: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertEvent = `INSERT INTO calendar_events (id, title, description, start_time, end_time, location, owner_id, external_id, provider, all_day, recurrence_rule, deleted, deleted_at, created_at, updated_at)
		VALUES (:id, :title, :description, :start_time, :end_time, :location, :owner_id, :external_id, :provider, :all_day, :recurrence_rule, :deleted, :deleted_at, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertEvent, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	const insertAttendee = `INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, userID := range attendeeIDs {
		if _, err := tx.ExecContext(ctx, insertAttendee, event.ID, userID); err != nil {
			return fmt.Errorf("create event attendee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create event: %w", err)
	}
	return nil
}

// FindByID returns an event regardless of its deleted flag.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1 LIMIT 1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// FindActiveByID returns a non-deleted event by id.
func (r *EventRepository) FindActiveByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1 AND deleted = FALSE LIMIT 1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active event by id: %w", err)
	}
	return &event, nil
}

// Update persists the mutable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_events SET title = :title, description = :description, start_time = :start_time, end_time = :end_time, location = :location, external_id = :external_id, provider = :provider, all_day = :all_day, recurrence_rule = :recurrence_rule, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// SoftDelete flags the event deleted, leaving the row and its attendee
// links in place.
func (r *EventRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE calendar_events SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("soft delete event: %w", err)
	}
	return nil
}

// HardDelete physically removes the event and its attendee links in one
// transaction.
func (r *EventRepository) HardDelete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin hard delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("hard delete event attendees: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("hard delete event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit hard delete: %w", err)
	}
	return nil
}

// ListForUser returns the non-deleted events the user owns or attends,
// ordered by start time.
func (r *EventRepository) ListForUser(ctx context.Context, userID string) ([]models.CalendarEvent, error) {
	query := `SELECT DISTINCT ` + eventColumnsPrefixed + ` FROM calendar_events e
		LEFT JOIN event_attendees a ON a.event_id = e.id
		WHERE (e.owner_id = $1 OR a.user_id = $1) AND e.deleted = FALSE
		ORDER BY e.start_time`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("list events for user: %w", err)
	}
	return events, nil
}

// ListForUserInRange returns the user's visible events fully contained in
// [start, end]: start <= event.start_time AND event.end_time <= end.
func (r *EventRepository) ListForUserInRange(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error) {
	query := `SELECT DISTINCT ` + eventColumnsPrefixed + ` FROM calendar_events e
		LEFT JOIN event_attendees a ON a.event_id = e.id
		WHERE (e.owner_id = $1 OR a.user_id = $1) AND e.deleted = FALSE
		AND e.start_time >= $2 AND e.end_time <= $3
		ORDER BY e.start_time`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}
	return events, nil
}

// SearchForUser filters the user's visible events by title and location
// substrings, case insensitively.
func (r *EventRepository) SearchForUser(ctx context.Context, userID, title, location string) ([]models.CalendarEvent, error) {
	query := `SELECT DISTINCT ` + eventColumnsPrefixed + ` FROM calendar_events e
		LEFT JOIN event_attendees a ON a.event_id = e.id
		WHERE (e.owner_id = $1 OR a.user_id = $1) AND e.deleted = FALSE`
	args := []interface{}{userID}

	if title != "" {
		query += fmt.Sprintf(" AND LOWER(e.title) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(title)+"%")
	}
	if location != "" {
		query += fmt.Sprintf(" AND LOWER(e.location) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(location)+"%")
	}
	query += " ORDER BY e.start_time"

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return events, nil
}

// ListLinkedByOwner returns every event the owner has bound to the given
// provider, soft-deleted rows included. The reconciler needs the full set
// to match against the remote list.
func (r *EventRepository) ListLinkedByOwner(ctx context.Context, ownerID string, provider models.CalendarProvider) ([]models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE owner_id = $1 AND provider = $2 AND external_id IS NOT NULL`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, ownerID, provider); err != nil {
		return nil, fmt.Errorf("list linked events: %w", err)
	}
	return events, nil
}

// ListOwnerIDsWithProvider returns the distinct owners of active events
// linked to the given provider. Used by the background sync worker.
func (r *EventRepository) ListOwnerIDsWithProvider(ctx context.Context, provider models.CalendarProvider) ([]string, error) {
	const query = `SELECT DISTINCT owner_id FROM calendar_events WHERE provider = $1 AND external_id IS NOT NULL AND deleted = FALSE`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, provider); err != nil {
		return nil, fmt.Errorf("list provider owners: %w", err)
	}
	return ids, nil
}

// Attendees returns the users attending an event.
func (r *EventRepository) Attendees(ctx context.Context, eventID string) ([]models.User, error) {
	query := `SELECT u.id, u.email, u.name, u.picture_url, u.auth_provider, u.provider_id, u.role, u.password_hash, u.created_at, u.updated_at
		FROM users u JOIN event_attendees a ON a.user_id = u.id
		WHERE a.event_id = $1 ORDER BY u.email`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, eventID); err != nil {
		return nil, fmt.Errorf("list event attendees: %w", err)
	}
	return users, nil
}

// AddAttendee links a user to an event. Adding an existing attendee is a
// no-op, keeping set semantics.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	const query = `INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("add attendee: %w", err)
	}
	return nil
}

// RemoveAttendee unlinks a user from an event. Removing a non-member is a
// no-op.
func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	const query = `DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("remove attendee: %w", err)
	}
	return nil
}

// ReplaceAttendees swaps the full attendee set in one transaction.
func (r *EventRepository) ReplaceAttendees(ctx context.Context, eventID string, userIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace attendees: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear attendees: %w", err)
	}
	const insertAttendee = `INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insertAttendee, eventID, userID); err != nil {
			return fmt.Errorf("insert attendee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace attendees: %w", err)
	}
	return nil
}
