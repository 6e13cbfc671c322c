package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/domain"
)

const (
	calendarName          = "Campus Events"
	defaultEventDuration  = 2 * time.Hour
	importedOrganizer     = "Imported"
	importedDescription   = "Imported from calendar"
	importedVenue         = "TBA"
	importedEventFallback = "Untitled event"
)

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\r\n]+`)

type calendarService struct {
	eventRepo      domain.EventRepository
	codec          domain.CalendarCodec
	fetcher        domain.CalendarFetcher
	contextTimeout time.Duration
}

func NewCalendarService(eventRepo domain.EventRepository, codec domain.CalendarCodec, fetcher domain.CalendarFetcher, timeout time.Duration) domain.CalendarService {
	return &calendarService{
		eventRepo:      eventRepo,
		codec:          codec,
		fetcher:        fetcher,
		contextTimeout: timeout,
	}
}

// ExportEvent renders one event as an iCalendar file lasting two hours from its start.
func (s *calendarService) ExportEvent(ctx context.Context, eventID string) (string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return "", nil, err
	}
	entry := domain.CalendarEntry{
		UID:         event.ID,
		Summary:     event.Name,
		Description: event.Description,
		Location:    event.Venue,
		Organizer:   event.Organizer,
		Start:       event.Date,
		End:         event.Date.Add(defaultEventDuration),
	}
	data, err := s.codec.Encode(calendarName, []domain.CalendarEntry{entry})
	if err != nil {
		return "", nil, fmt.Errorf("encode calendar: %w", err)
	}
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(event.Name, "_"))
	if name == "" {
		name = "event"
	}
	return name + ".ics", data, nil
}

// Import creates one event per calendar entry. Entries without a start time are skipped.
func (s *calendarService) Import(ctx context.Context, actorID string, data []byte) (*domain.ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.importData(ctx, actorID, data)
}

func (s *calendarService) ImportFromURL(ctx context.Context, actorID, url string) (*domain.ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if s.fetcher == nil {
		return nil, domain.InvalidInputf("importing from a URL is not enabled")
	}
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.importData(ctx, actorID, data)
}

func (s *calendarService) importData(ctx context.Context, actorID string, data []byte) (*domain.ImportResult, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, domain.InvalidInputf("calendar data is required")
	}
	entries, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{Events: make([]*domain.Event, 0, len(entries))}
	for _, entry := range entries {
		if entry.Start.IsZero() {
			result.Skipped++
			continue
		}
		now := time.Now()
		event := domain.NewEvent(
			firstNonEmpty(entry.Summary, importedEventFallback),
			firstNonEmpty(entry.Description, importedDescription),
			firstNonEmpty(entry.Location, importedVenue),
			firstNonEmpty(entry.Organizer, importedOrganizer),
			entry.Start, now, now,
		)
		if err := createEvent(ctx, s.eventRepo, actorID, event); err != nil {
			return nil, fmt.Errorf("import %q: %w", event.Name, err)
		}
		result.Events = append(result.Events, event)
	}
	return result, nil
}

func firstNonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
