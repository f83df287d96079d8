package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"eventsort/pkg/models"
)

// DefaultAudience is the required-field fallback for target_audience.
const DefaultAudience = "all students"

var feePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Normalize coerces a raw extraction into the canonical record. Pure and
// idempotent: feeding a normalized record back through produces the same
// result.
func Normalize(raw models.RawExtraction) models.CanonicalEvent {
	return models.CanonicalEvent{
		Title:          stripMarkup(raw.Title),
		EventType:      capitalize(raw.EventType),
		Date:           raw.Date,
		Location:       raw.Location,
		Synopsis:       raw.Synopsis,
		Organisation:   raw.Organisation,
		Fee:            NormalizeFee(raw.Fee),
		SignupLink:     raw.SignupLink,
		Deadline:       raw.Deadline,
		TargetAudience: raw.TargetAudience,
		Refreshments:   capitalize(raw.Refreshments),
		KeySpeakers:    raw.KeySpeakers,
		Contacts:       raw.Contacts,
	}
}

// NormalizeFee maps the oracle's advisory fee field (free text or number)
// to a single numeric type: nil = unknown, 0 = free, positive = paid.
// Unrecognized strings fall back to the first decimal numeral found, else
// nil; downstream never sees a currency string.
func NormalizeFee(v any) *float64 {
	switch fee := v.(type) {
	case nil:
		return nil
	case float64:
		if fee < 0 {
			return nil
		}
		return &fee
	case int:
		if fee < 0 {
			return nil
		}
		f := float64(fee)
		return &f
	case string:
		return normalizeFeeString(fee)
	default:
		return nil
	}
}

func normalizeFeeString(s string) *float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "tbc", "nil", "none", "unknown":
		return nil
	case "free":
		zero := 0.0
		return &zero
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return &f
	}

	// "$12.50", "10 dollars", "SGD 5" - scan for the first numeral
	if m := feePattern.FindString(s); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			return &f
		}
	}
	return nil
}

// capitalize upper-cases the first letter and lower-cases the rest,
// giving event_type and refreshments one stable display casing.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// stripMarkup drops the emphasis punctuation Telegram clients leave in
// forwarded text ("**AI Talk**", "_tonight_") and trims whitespace.
func stripMarkup(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '`':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
