package events

import (
	"strings"
	"time"

	"eventsort/pkg/models"
)

// Window selects the recency slice of a user's pending events.
type Window string

const (
	WindowAll      Window = "all"
	WindowUpcoming Window = "upcoming"
	WindowUrgent   Window = "urgent" // within the next 7 days
)

const urgentHorizon = 7 * 24 * time.Hour

func ParseWindow(s string) (Window, bool) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case WindowAll:
		return WindowAll, true
	case WindowUpcoming, "":
		return WindowUpcoming, true
	case WindowUrgent:
		return WindowUrgent, true
	}
	return "", false
}

// dateFormats covers the forms the oracle actually emits for the date
// field. Anything else is treated as unparseable.
var dateFormats = []string{
	"2 Jan 2006, 3:04 PM",
	"2 Jan 2006, 3:04PM",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// yearlessFormats get the current year filled in.
var yearlessFormats = []string{
	"2 Jan, 3:04 PM",
	"2 Jan",
}

// ParseEventDate makes a best effort at the free-text date field.
// Sentinels ("TBC", "Ongoing", ...) and unrecognized forms report false.
func ParseEventDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "tbc", "none", "ongoing", "unknown":
		return time.Time{}, false
	}

	// range dates like "8-9 Nov 2025": keep the first day
	if i := strings.IndexByte(s, '-'); i > 0 && i <= 2 {
		if sp := strings.IndexByte(s, ' '); sp > i {
			s = s[:i] + s[sp:]
		}
	}

	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}

	// date-only portion of "4 Nov 2025, doors open 5 PM" style strings
	head := strings.TrimSpace(strings.SplitN(s, ",", 2)[0])
	for _, layout := range []string{"2 Jan 2006", "2 January 2006"} {
		if t, err := time.ParseInLocation(layout, head, now.Location()); err == nil {
			return t, true
		}
	}

	for _, layout := range yearlessFormats {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t.AddDate(now.Year(), 0, 0), true
		}
	}

	return time.Time{}, false
}

// FilterByWindow applies the recency window. Events whose date cannot be
// parsed count as upcoming (better to over-show than silently drop) but
// never as urgent.
func FilterByWindow(recs []models.EventRecord, w Window, now time.Time) []models.EventRecord {
	if w == WindowAll {
		return recs
	}

	out := make([]models.EventRecord, 0, len(recs))
	for _, rec := range recs {
		when, ok := ParseEventDate(rec.Date, now)
		if !ok {
			if w == WindowUpcoming {
				out = append(out, rec)
			}
			continue
		}

		switch w {
		case WindowUpcoming:
			if !when.Before(truncateToDay(now)) {
				out = append(out, rec)
			}
		case WindowUrgent:
			if !when.Before(truncateToDay(now)) && when.Sub(now) <= urgentHorizon {
				out = append(out, rec)
			}
		}
	}
	return out
}

// truncateToDay keeps same-day events visible even after their start time
// has passed.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
