package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/where2play/calendar-api/internal/models"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
	"github.com/where2play/calendar-api/pkg/export"
)

type eventRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent, attendeeIDs []string) error
	FindByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	FindActiveByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	Update(ctx context.Context, event *models.CalendarEvent) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	HardDelete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]models.CalendarEvent, error)
	ListForUserInRange(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error)
	SearchForUser(ctx context.Context, userID, title, location string) ([]models.CalendarEvent, error)
	ListLinkedByOwner(ctx context.Context, ownerID string, provider models.CalendarProvider) ([]models.CalendarEvent, error)
	ListOwnerIDsWithProvider(ctx context.Context, provider models.CalendarProvider) ([]string, error)
	Attendees(ctx context.Context, eventID string) ([]models.User, error)
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) error
	ReplaceAttendees(ctx context.Context, eventID string, userIDs []string) error
}

type eventUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// ProviderClient talks to one external calendar backend on behalf of the
// given owner.
type ProviderClient interface {
	ListEvents(ctx context.Context, ownerID string) ([]models.ProviderEvent, error)
	CreateEvent(ctx context.Context, ownerID string, event *models.CalendarEvent) (string, error)
	UpdateEvent(ctx context.Context, ownerID string, event *models.CalendarEvent) error
	DeleteEvent(ctx context.Context, ownerID, externalID string) error
}

// EventService implements the calendar event lifecycle and provider sync.
type EventService struct {
	repo      eventRepository
	users     eventUserRepository
	providers map[models.CalendarProvider]ProviderClient
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	hardDeleteEnabled bool
}

// NewEventService constructs an EventService instance. Hard deletes stay
// rejected unless hardDeleteEnabled is set.
func NewEventService(repo eventRepository, users eventUserRepository, providers map[models.CalendarProvider]ProviderClient, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, hardDeleteEnabled bool) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if providers == nil {
		providers = map[models.CalendarProvider]ProviderClient{}
	}
	return &EventService{
		repo:              repo,
		users:             users,
		providers:         providers,
		metrics:           metrics,
		validator:         validate,
		logger:            logger,
		hardDeleteEnabled: hardDeleteEnabled,
	}
}

// Create stores a new event owned by ownerID. Events bound to an external
// provider are pushed there first; a push failure aborts the local write.
func (s *EventService) Create(ctx context.Context, ownerID string, req models.CreateEventRequest) (*models.EventView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	provider := models.CalendarProviderLocal
	if req.Provider != "" {
		parsed, ok := models.ParseCalendarProvider(req.Provider)
		if !ok {
			s.logger.Warn("ignoring unknown calendar provider", zap.String("provider", req.Provider))
		} else {
			provider = parsed
		}
	}

	attendeeIDs, err := s.resolveAttendees(ctx, ownerID, req.AttendeeIDs)
	if err != nil {
		return nil, err
	}

	event := &models.CalendarEvent{
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		Location:       req.Location,
		OwnerID:        ownerID,
		Provider:       provider,
		AllDay:         req.AllDay,
		RecurrenceRule: req.RecurrenceRule,
	}

	if provider != models.CalendarProviderLocal {
		client, ok := s.providers[provider]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("no client configured for provider %s", provider))
		}
		externalID, err := client.CreateEvent(ctx, ownerID, event)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "provider rejected event creation")
		}
		event.ExternalID = &externalID
	}

	if err := s.repo.Create(ctx, event, attendeeIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store event")
	}

	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("owner_id", ownerID),
		zap.String("provider", string(provider)))
	return s.buildView(ctx, event)
}

// Get returns an event visible to userID. Soft-deleted events read as
// not found; reads by users who neither own nor attend are forbidden.
func (s *EventService) Get(ctx context.Context, userID, eventID string) (*models.EventView, error) {
	event, err := s.loadVisible(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, event)
}

// Update applies a partial update. Only the owner may modify an event, and
// linked events are pushed to their provider before the local write.
func (s *EventService) Update(ctx context.Context, userID, eventID string, req models.UpdateEventRequest) (*models.EventView, error) {
	event, err := s.loadOwned(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime.UTC()
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.RecurrenceRule != nil {
		event.RecurrenceRule = *req.RecurrenceRule
	}

	if event.Linked() {
		client, ok := s.providers[event.Provider]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("no client configured for provider %s", event.Provider))
		}
		if err := client.UpdateEvent(ctx, event.OwnerID, event); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "provider rejected event update")
		}
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	if req.AttendeeIDs != nil {
		attendeeIDs, err := s.resolveAttendees(ctx, event.OwnerID, *req.AttendeeIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceAttendees(ctx, event.ID, attendeeIDs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendees")
		}
	}

	return s.buildView(ctx, event)
}

// Delete soft-deletes an event. Linked events are removed from their
// provider first; the local row and its attendee links survive.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	event, err := s.loadOwned(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if event.Linked() {
		client, ok := s.providers[event.Provider]
		if !ok {
			return appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("no client configured for provider %s", event.Provider))
		}
		if err := client.DeleteEvent(ctx, event.OwnerID, *event.ExternalID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "provider rejected event deletion")
		}
	}

	if err := s.repo.SoftDelete(ctx, event.ID, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}

	s.logger.Info("event soft-deleted", zap.String("event_id", event.ID), zap.String("owner_id", userID))
	return nil
}

// HardDelete physically removes an event and its attendee links. It only
// runs when the server enables test support and the caller flags a test
// request; both guards failing reads as forbidden.
func (s *EventService) HardDelete(ctx context.Context, userID, eventID string, testRequest bool) error {
	if !s.hardDeleteEnabled || !testRequest {
		return appErrors.Clone(appErrors.ErrForbidden, "hard delete is not enabled")
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event.OwnerID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the owner may delete an event")
	}

	if event.Linked() && !event.Deleted {
		if client, ok := s.providers[event.Provider]; ok {
			if err := client.DeleteEvent(ctx, event.OwnerID, *event.ExternalID); err != nil {
				s.logger.Warn("provider cleanup failed during hard delete",
					zap.String("event_id", event.ID), zap.Error(err))
			}
		}
	}

	if err := s.repo.HardDelete(ctx, event.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hard delete event")
	}

	s.logger.Info("event hard-deleted", zap.String("event_id", event.ID), zap.String("owner_id", userID))
	return nil
}

// ListForUser returns every active event the user owns or attends.
func (s *EventService) ListForUser(ctx context.Context, userID string) ([]models.EventView, error) {
	events, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return s.buildViews(ctx, events)
}

// ListInRange returns the user's events fully contained in [start, end].
// An event counts only when it starts no earlier than start and ends no
// later than end.
func (s *EventService) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]models.EventView, error) {
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}
	events, err := s.repo.ListForUserInRange(ctx, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events in range")
	}
	return s.buildViews(ctx, events)
}

// Search filters the user's events by title and location substrings.
func (s *EventService) Search(ctx context.Context, userID, title, location string) ([]models.EventView, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(location) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one of title or location is required")
	}
	events, err := s.repo.SearchForUser(ctx, userID, strings.TrimSpace(title), strings.TrimSpace(location))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search events")
	}
	return s.buildViews(ctx, events)
}

// AddAttendee invites a user to an event. Only the owner may invite, and
// inviting an existing attendee is a no-op.
func (s *EventService) AddAttendee(ctx context.Context, userID, eventID, attendeeID string) (*models.EventView, error) {
	event, err := s.loadOwned(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, attendeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendee")
	}

	if err := s.repo.AddAttendee(ctx, event.ID, attendeeID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add attendee")
	}
	return s.buildView(ctx, event)
}

// RemoveAttendee uninvites a user. Removing a non-attendee is a no-op.
func (s *EventService) RemoveAttendee(ctx context.Context, userID, eventID, attendeeID string) (*models.EventView, error) {
	event, err := s.loadOwned(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveAttendee(ctx, event.ID, attendeeID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove attendee")
	}
	return s.buildView(ctx, event)
}

// Export renders the user's agenda as CSV or PDF.
func (s *EventService) Export(ctx context.Context, userID, format string) ([]byte, string, error) {
	events, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	dataset := export.Dataset{
		Headers: []string{"Title", "Start", "End", "Location", "Provider"},
	}
	for i := range events {
		e := &events[i]
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":    e.Title,
			"Start":    e.StartTime.Format(time.RFC3339),
			"End":      e.EndTime.Format(time.RFC3339),
			"Location": e.Location,
			"Provider": string(e.Provider),
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Agenda")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// Synchronize reconciles the owner's local copy of a provider calendar
// against the provider's current state. Remote events win: matching local
// events are overwritten, unknown remote events are created, and local
// linked events missing remotely are removed. A fetch failure aborts the
// run before any local mutation.
func (s *EventService) Synchronize(ctx context.Context, ownerID, providerName string) (*models.SyncResult, error) {
	provider, ok := models.ParseCalendarProvider(providerName)
	if !ok || provider == models.CalendarProviderLocal {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("unsupported calendar provider %q", providerName))
	}
	client, ok := s.providers[provider]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("no client configured for provider %s", provider))
	}

	started := time.Now()
	result, err := s.reconcile(ctx, ownerID, provider, client)
	if s.metrics != nil {
		s.metrics.RecordSyncRun(string(provider), err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordSyncEvents(string(provider), result.Created, result.Updated, result.Deleted)
	}

	s.logger.Info("calendar sync completed",
		zap.String("owner_id", ownerID),
		zap.String("provider", string(provider)),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted))
	return result, nil
}

func (s *EventService) reconcile(ctx context.Context, ownerID string, provider models.CalendarProvider, client ProviderClient) (*models.SyncResult, error) {
	remote, err := client.ListEvents(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "failed to fetch provider events")
	}

	local, err := s.repo.ListLinkedByOwner(ctx, ownerID, provider)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list linked events")
	}

	localByExternal := make(map[string]*models.CalendarEvent, len(local))
	for i := range local {
		localByExternal[*local[i].ExternalID] = &local[i]
	}

	result := &models.SyncResult{Provider: provider, Fetched: len(remote)}
	seen := make(map[string]struct{}, len(remote))

	for _, rev := range remote {
		seen[rev.ExternalID] = struct{}{}
		if existing, ok := localByExternal[rev.ExternalID]; ok {
			existing.Title = rev.Title
			existing.Description = rev.Description
			existing.StartTime = rev.StartTime.UTC()
			existing.EndTime = rev.EndTime.UTC()
			existing.Location = rev.Location
			existing.AllDay = rev.AllDay
			existing.RecurrenceRule = rev.RecurrenceRule
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update synced event")
			}
			result.Updated++
			continue
		}

		externalID := rev.ExternalID
		created := &models.CalendarEvent{
			Title:          rev.Title,
			Description:    rev.Description,
			StartTime:      rev.StartTime.UTC(),
			EndTime:        rev.EndTime.UTC(),
			Location:       rev.Location,
			OwnerID:        ownerID,
			ExternalID:     &externalID,
			Provider:       provider,
			AllDay:         rev.AllDay,
			RecurrenceRule: rev.RecurrenceRule,
		}
		if err := s.repo.Create(ctx, created, nil); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store synced event")
		}
		result.Created++
	}

	// orphans: linked locally but gone from the provider
	for i := range local {
		if _, ok := seen[*local[i].ExternalID]; ok {
			continue
		}
		if err := s.repo.HardDelete(ctx, local[i].ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove orphaned event")
		}
		result.Deleted++
	}

	return result, nil
}

// SynchronizeAllOwners runs a sync pass for every owner with events linked
// to the provider. Per-owner failures are logged and do not stop the pass.
func (s *EventService) SynchronizeAllOwners(ctx context.Context, providerName string) error {
	provider, ok := models.ParseCalendarProvider(providerName)
	if !ok || provider == models.CalendarProviderLocal {
		return appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("unsupported calendar provider %q", providerName))
	}

	owners, err := s.repo.ListOwnerIDsWithProvider(ctx, provider)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sync owners")
	}

	for _, ownerID := range owners {
		if _, err := s.Synchronize(ctx, ownerID, providerName); err != nil {
			s.logger.Warn("background sync failed for owner",
				zap.String("owner_id", ownerID),
				zap.String("provider", string(provider)),
				zap.Error(err))
		}
	}
	return nil
}

func (s *EventService) loadVisible(ctx context.Context, userID, eventID string) (*models.CalendarEvent, error) {
	event, err := s.repo.FindActiveByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event.OwnerID == userID {
		return event, nil
	}
	attendees, err := s.repo.Attendees(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendees")
	}
	for i := range attendees {
		if attendees[i].ID == userID {
			return event, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owner or an attendee may view an event")
}

func (s *EventService) loadOwned(ctx context.Context, userID, eventID string) (*models.CalendarEvent, error) {
	event, err := s.repo.FindActiveByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event.OwnerID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owner may modify an event")
	}
	return event, nil
}

func (s *EventService) resolveAttendees(ctx context.Context, ownerID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	unique := make([]string, 0, len(ids))
	seen := map[string]struct{}{}
	for _, id := range ids {
		if id == "" || id == ownerID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	found, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve attendees")
	}

	// ids that don't resolve to a user are silently dropped
	exists := make(map[string]struct{}, len(found))
	for i := range found {
		exists[found[i].ID] = struct{}{}
	}
	resolved := unique[:0]
	for _, id := range unique {
		if _, ok := exists[id]; ok {
			resolved = append(resolved, id)
		} else {
			s.logger.Debug("skipping unknown attendee id", zap.String("attendee_id", id))
		}
	}
	if len(resolved) == 0 {
		return nil, nil
	}
	return resolved, nil
}

func (s *EventService) buildView(ctx context.Context, event *models.CalendarEvent) (*models.EventView, error) {
	views, err := s.buildViews(ctx, []models.CalendarEvent{*event})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *EventService) buildViews(ctx context.Context, events []models.CalendarEvent) ([]models.EventView, error) {
	views := make([]models.EventView, 0, len(events))
	for i := range events {
		event := events[i]

		owner, err := s.users.FindByID(ctx, event.OwnerID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event owner")
		}
		attendees, err := s.repo.Attendees(ctx, event.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendees")
		}

		summaries := make([]models.UserSummary, 0, len(attendees))
		for j := range attendees {
			summaries = append(summaries, attendees[j].Summary())
		}
		views = append(views, models.EventView{
			CalendarEvent: event,
			Owner:         owner.Summary(),
			Attendees:     summaries,
		})
	}
	return views, nil
}
