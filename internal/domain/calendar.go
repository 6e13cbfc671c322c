package domain

import (
	"context"
	"time"
)

// CalendarEntry is the calendar-format view of an event.
type CalendarEntry struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Organizer   string
	Start       time.Time
	End         time.Time
}

// CalendarCodec encodes and decodes iCalendar documents.
type CalendarCodec interface {
	Encode(calendarName string, entries []CalendarEntry) ([]byte, error)
	Decode(data []byte) ([]CalendarEntry, error)
}

// CalendarFetcher downloads a calendar document from a URL.
type CalendarFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImportResult reports what a calendar import created.
// swagger:model ImportResult
type ImportResult struct {
	Events  []*Event `json:"events"`
	Skipped int      `json:"skipped"`
}

// CalendarService exports events to and imports events from iCalendar.
type CalendarService interface {
	// ExportEvent returns the filename and body of a single-event calendar.
	ExportEvent(ctx context.Context, eventID string) (filename string, data []byte, err error)
	Import(ctx context.Context, actorID string, data []byte) (*ImportResult, error)
	ImportFromURL(ctx context.Context, actorID, url string) (*ImportResult, error)
}
