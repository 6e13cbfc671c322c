package ical

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"campusevents/internal/domain"
)

const (
	productID      = "-//Campus Events//Campus Events//EN"
	organizerEmail = "MAILTO:noreply@campus-events.local"
)

type codec struct {
	now func() time.Time
}

// NewCodec returns an iCalendar codec.
func NewCodec() domain.CalendarCodec {
	return &codec{now: time.Now}
}

func (c *codec) Encode(calendarName string, entries []domain.CalendarEntry) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendarName)

	stamp := c.now().UTC()
	for _, entry := range entries {
		if entry.UID == "" {
			return nil, domain.InvalidInputf("calendar entry without uid")
		}
		ev := cal.AddEvent(entry.UID)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(entry.Start.UTC())
		ev.SetEndAt(entry.End.UTC())
		ev.SetSummary(entry.Summary)
		if entry.Description != "" {
			ev.SetDescription(entry.Description)
		}
		if entry.Location != "" {
			ev.SetLocation(entry.Location)
		}
		if entry.Organizer != "" {
			ev.SetOrganizer(organizerEmail, ics.WithCN(entry.Organizer))
		}
	}
	return []byte(cal.Serialize()), nil
}

func (c *codec) Decode(data []byte) ([]domain.CalendarEntry, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse calendar: %v", domain.ErrInvalidInput, err)
	}

	var entries []domain.CalendarEntry
	for _, ev := range cal.Events() {
		entry := domain.CalendarEntry{
			UID:         ev.Id(),
			Summary:     propertyValue(ev, ics.ComponentPropertySummary),
			Description: propertyValue(ev, ics.ComponentPropertyDescription),
			Location:    propertyValue(ev, ics.ComponentPropertyLocation),
			Organizer:   organizerName(ev),
		}
		// A missing or malformed DTSTART leaves Start zero; callers skip those.
		if start, err := ev.GetStartAt(); err == nil {
			entry.Start = start
		}
		if end, err := ev.GetEndAt(); err == nil {
			entry.End = end
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func propertyValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}

// organizerName prefers the CN parameter and falls back to the address.
func organizerName(ev *ics.VEvent) string {
	p := ev.GetProperty(ics.ComponentPropertyOrganizer)
	if p == nil {
		return ""
	}
	if cn := p.ICalParameters[string(ics.ParameterCn)]; len(cn) > 0 && strings.TrimSpace(cn[0]) != "" {
		return strings.TrimSpace(cn[0])
	}
	value := strings.TrimSpace(p.Value)
	if len(value) > len("mailto:") && strings.EqualFold(value[:len("mailto:")], "mailto:") {
		value = value[len("mailto:"):]
	}
	return value
}
