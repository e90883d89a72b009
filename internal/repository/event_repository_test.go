package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/where2play/calendar-api/internal/models"
)

func eventRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "start_time", "end_time", "location", "owner_id", "external_id", "provider", "all_day", "recurrence_rule", "deleted", "deleted_at", "created_at", "updated_at"}).
		AddRow("e1", "Standup", "Daily sync", now, now.Add(30*time.Minute), "Room 1", "u1", nil, string(models.CalendarProviderLocal), false, "", false, nil, now, now)
}

func TestEventCreateWithAttendees(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO calendar_events").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO event_attendees").WithArgs(sqlmock.AnyArg(), "u2").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO event_attendees").WithArgs(sqlmock.AnyArg(), "u3").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := &models.CalendarEvent{Title: "Standup", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), OwnerID: "u1"}
	err := repo.Create(context.Background(), event, []string{"u2", "u3"})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.CalendarProviderLocal, event.Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCreateRollsBackOnAttendeeFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO calendar_events").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO event_attendees").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	event := &models.CalendarEvent{Title: "Standup", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), OwnerID: "u1"}
	err := repo.Create(context.Background(), event, []string{"u2"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventFindActiveByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT .* FROM calendar_events WHERE id = \\$1 AND deleted = FALSE").
		WithArgs("e1").
		WillReturnRows(eventRows(time.Now()))

	event, err := repo.FindActiveByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Standup", event.Title)
	assert.False(t, event.Deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventSoftDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	at := time.Now()
	mock.ExpectExec("UPDATE calendar_events SET deleted = TRUE").
		WithArgs("e1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "e1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventHardDeleteRemovesLinksFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM event_attendees WHERE event_id").WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM calendar_events WHERE id").WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.HardDelete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventListForUserInRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	mock.ExpectQuery("SELECT DISTINCT .* FROM calendar_events e\\s+LEFT JOIN event_attendees").
		WithArgs("u1", start, end).
		WillReturnRows(eventRows(start.Add(24 * time.Hour)))

	events, err := repo.ListForUserInRange(context.Background(), "u1", start, end)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventSearchForUserBuildsConditions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("AND LOWER\\(e.title\\) LIKE \\$2 AND LOWER\\(e.location\\) LIKE \\$3").
		WithArgs("u1", "%standup%", "%room%").
		WillReturnRows(eventRows(time.Now()))

	events, err := repo.SearchForUser(context.Background(), "u1", "Standup", "Room")
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventListLinkedByOwnerIncludesDeleted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "start_time", "end_time", "location", "owner_id", "external_id", "provider", "all_day", "recurrence_rule", "deleted", "deleted_at", "created_at", "updated_at"}).
		AddRow("e1", "Linked", "", now, now.Add(time.Hour), "", "u1", "ext-1", string(models.CalendarProviderGoogle), false, "", true, now, now, now)
	mock.ExpectQuery("SELECT .* FROM calendar_events WHERE owner_id = \\$1 AND provider = \\$2 AND external_id IS NOT NULL").
		WithArgs("u1", string(models.CalendarProviderGoogle)).
		WillReturnRows(rows)

	events, err := repo.ListLinkedByOwner(context.Background(), "u1", models.CalendarProviderGoogle)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Deleted)
	require.NotNil(t, events[0].ExternalID)
	assert.Equal(t, "ext-1", *events[0].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventAddAttendeeIdempotent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	// second insert hits ON CONFLICT DO NOTHING and affects zero rows
	mock.ExpectExec("INSERT INTO event_attendees").WithArgs("e1", "u2").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO event_attendees").WithArgs("e1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AddAttendee(context.Background(), "e1", "u2"))
	require.NoError(t, repo.AddAttendee(context.Background(), "e1", "u2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventReplaceAttendees(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM event_attendees WHERE event_id").WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO event_attendees").WithArgs("e1", "u5").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAttendees(context.Background(), "e1", []string{"u5"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
