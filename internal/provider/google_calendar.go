package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/where2play/calendar-api/internal/models"
)

const primaryCalendarID = "primary"

// GoogleCalendarClient talks to the Google Calendar API for users who
// connected their account through the OAuth flow. Tokens are held in
// memory keyed by user id.
type GoogleCalendarClient struct {
	config *oauth2.Config
	logger *zap.Logger

	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewGoogleCalendarClient builds a client for the given OAuth application.
func NewGoogleCalendarClient(clientID, clientSecret, redirectURL string, logger *zap.Logger) *GoogleCalendarClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleCalendarClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
		tokens: map[string]*oauth2.Token{},
	}
}

// AuthorizationURL returns the consent-screen URL for the OAuth flow.
func (c *GoogleCalendarClient) AuthorizationURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades an authorization code for a token and binds it to
// the user.
func (c *GoogleCalendarClient) ExchangeCode(ctx context.Context, userID, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	c.mu.Lock()
	c.tokens[userID] = token
	c.mu.Unlock()

	c.logger.Info("google account connected", zap.String("user_id", userID))
	return nil
}

// IsAuthorized reports whether the user has a stored token.
func (c *GoogleCalendarClient) IsAuthorized(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tokens[userID]
	return ok
}

// Disconnect drops the user's stored token.
func (c *GoogleCalendarClient) Disconnect(userID string) {
	c.mu.Lock()
	delete(c.tokens, userID)
	c.mu.Unlock()
}

func (c *GoogleCalendarClient) serviceFor(ctx context.Context, userID string) (*calendar.Service, error) {
	c.mu.RLock()
	token, ok := c.tokens[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("google account not connected for user %s", userID)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(c.config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return service, nil
}

// ListEvents fetches the user's primary calendar, normalized for
// reconciliation. Recurring events come back expanded.
func (c *GoogleCalendarClient) ListEvents(ctx context.Context, userID string) ([]models.ProviderEvent, error) {
	service, err := c.serviceFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := service.Events.List(primaryCalendarID).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list google events: %w", err)
	}

	events := make([]models.ProviderEvent, 0, len(list.Items))
	for _, item := range list.Items {
		event, ok := fromGoogleEvent(item)
		if !ok {
			c.logger.Debug("skipping google event without usable times", zap.String("event_id", item.Id))
			continue
		}
		events = append(events, event)
	}

	c.logger.Debug("fetched google events", zap.String("user_id", userID), zap.Int("count", len(events)))
	return events, nil
}

// CreateEvent inserts the event into the user's primary calendar and
// returns the id Google assigned.
func (c *GoogleCalendarClient) CreateEvent(ctx context.Context, userID string, event *models.CalendarEvent) (string, error) {
	service, err := c.serviceFor(ctx, userID)
	if err != nil {
		return "", err
	}

	created, err := service.Events.Insert(primaryCalendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert google event: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent overwrites the linked copy in the user's primary calendar.
func (c *GoogleCalendarClient) UpdateEvent(ctx context.Context, userID string, event *models.CalendarEvent) error {
	if event.ExternalID == nil || *event.ExternalID == "" {
		return fmt.Errorf("event %s has no external id", event.ID)
	}
	service, err := c.serviceFor(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := service.Events.Update(primaryCalendarID, *event.ExternalID, toGoogleEvent(event)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update google event %s: %w", *event.ExternalID, err)
	}
	return nil
}

// DeleteEvent removes the linked copy from the user's primary calendar.
func (c *GoogleCalendarClient) DeleteEvent(ctx context.Context, userID, externalID string) error {
	service, err := c.serviceFor(ctx, userID)
	if err != nil {
		return err
	}

	if err := service.Events.Delete(primaryCalendarID, externalID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete google event %s: %w", externalID, err)
	}
	return nil
}

func toGoogleEvent(event *models.CalendarEvent) *calendar.Event {
	gev := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
	}
	if event.AllDay {
		gev.Start = &calendar.EventDateTime{Date: event.StartTime.UTC().Format("2006-01-02")}
		gev.End = &calendar.EventDateTime{Date: event.EndTime.UTC().Format("2006-01-02")}
	} else {
		gev.Start = &calendar.EventDateTime{DateTime: event.StartTime.UTC().Format(time.RFC3339)}
		gev.End = &calendar.EventDateTime{DateTime: event.EndTime.UTC().Format(time.RFC3339)}
	}
	if event.RecurrenceRule != "" {
		gev.Recurrence = []string{event.RecurrenceRule}
	}
	return gev
}

func fromGoogleEvent(item *calendar.Event) (models.ProviderEvent, bool) {
	if item.Start == nil || item.End == nil {
		return models.ProviderEvent{}, false
	}

	event := models.ProviderEvent{
		ExternalID:  item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}
	if len(item.Recurrence) > 0 {
		event.RecurrenceRule = item.Recurrence[0]
	}

	switch {
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return models.ProviderEvent{}, false
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return models.ProviderEvent{}, false
		}
		event.StartTime = start.UTC()
		event.EndTime = end.UTC()
	case item.Start.Date != "":
		start, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return models.ProviderEvent{}, false
		}
		end, err := time.Parse("2006-01-02", item.End.Date)
		if err != nil {
			return models.ProviderEvent{}, false
		}
		event.StartTime = start
		event.EndTime = end
		event.AllDay = true
	default:
		return models.ProviderEvent{}, false
	}

	return event, true
}
