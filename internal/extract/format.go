package extract

import (
	"fmt"
	"net/url"
	"strings"

	"eventsort/pkg/models"
)

// Banners prepended to the summary. The review frontend keys off this
// text, treat it as part of the contract.
const (
	BannerOK       = "✅ Event details extracted!"
	BannerDegraded = "⚠️ I had trouble reading that message — here's what I could salvage:"
)

// Format renders a canonical event as the Telegram reply. The first five
// lines always appear ("TBC" standing in for unset optional fields); the
// rest appear only when the field carries real information. Free events
// get no fee line, and the audience line is omitted for the
// "all students" default.
func Format(ev models.CanonicalEvent) string {
	var b strings.Builder

	if ev.ParseError {
		b.WriteString(BannerDegraded)
	} else {
		b.WriteString(BannerOK)
	}
	b.WriteString("\n\n")

	b.WriteString("🎯 Event: " + orTBC(ev.Title) + "\n")
	b.WriteString("🏷️ Type: " + orTBC(ev.EventType) + "\n")
	b.WriteString("📆 Date: " + orTBC(ev.Date) + "\n")
	b.WriteString("📍 Location: " + orTBC(ev.Location) + "\n")
	b.WriteString("📝 Synopsis: " + orTBC(ev.Synopsis))

	if hasValue(ev.Organisation) {
		b.WriteString("\n🏢 Organiser: " + ev.Organisation)
	}
	if ev.Fee != nil && *ev.Fee != 0 {
		b.WriteString(fmt.Sprintf("\n💰 Fee: $%.2f", *ev.Fee))
	}
	if isHTTPURL(ev.SignupLink) {
		b.WriteString("\n🔗 Signup: " + ev.SignupLink)
	}
	if hasValue(ev.TargetAudience) && !strings.EqualFold(strings.TrimSpace(ev.TargetAudience), DefaultAudience) {
		b.WriteString("\n👥 For: " + ev.TargetAudience)
	}
	if hasValue(ev.Refreshments) {
		b.WriteString("\n🍴 Refreshments: " + ev.Refreshments)
	}
	if hasValue(ev.KeySpeakers) {
		b.WriteString("\n🎤 Speakers: " + ev.KeySpeakers)
	}

	return b.String()
}

func orTBC(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBC"
	}
	return s
}

// hasValue reports whether a field carries real information rather than a
// placeholder sentinel.
func hasValue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tbc", "none":
		return false
	}
	return true
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
