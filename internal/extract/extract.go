package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"eventsort/pkg/models"
)

// FallbackSynopsis is stored when the oracle's answer is not valid JSON.
const FallbackSynopsis = "Sorry, I couldn't read the event details from this message."

// Extract runs the full pipeline for one forwarded message: build the
// prompt, ask the oracle once (no retries), parse its JSON answer and
// normalize it. Transport errors propagate to the caller; a malformed
// answer never does - it degrades to a fallback record with ParseError set
// so downstream consumers don't have to special-case it.
func Extract(ctx context.Context, oracle Oracle, messageText string) (models.CanonicalEvent, error) {
	text, err := oracle.Complete(ctx, BuildPrompt(messageText), MaxResponseTokens)
	if err != nil {
		return models.CanonicalEvent{}, fmt.Errorf("oracle complete: %w", err)
	}

	var raw models.RawExtraction
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return fallbackEvent(), nil
	}

	applyRequiredDefaults(&raw)
	return Normalize(raw), nil
}

// stripCodeFence removes an optional markdown fence around the answer.
// Models wrap JSON in ```json ... ``` often enough that this is cheaper
// than re-prompting.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// drop the language tag ("json", etc.), newline after it or not
	s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// applyRequiredDefaults fills the six required fields when the oracle
// omitted them or answered with a placeholder, so a partial answer still
// produces a usable record instead of failing the whole extraction.
func applyRequiredDefaults(raw *models.RawExtraction) {
	raw.Title = orUnknown(raw.Title)
	raw.EventType = orUnknown(raw.EventType)
	raw.Date = orUnknown(raw.Date)
	raw.Synopsis = orUnknown(raw.Synopsis)
	raw.Deadline = orUnknown(raw.Deadline)

	if isPlaceholder(raw.TargetAudience) {
		raw.TargetAudience = DefaultAudience
	}
}

func orUnknown(s string) string {
	if isPlaceholder(s) {
		return "Unknown"
	}
	return s
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tbc", "nil":
		return true
	}
	return false
}

// fallbackEvent satisfies every CanonicalEvent invariant so the degraded
// path looks like any other record to storage and formatting.
func fallbackEvent() models.CanonicalEvent {
	return models.CanonicalEvent{
		Title:          "Unknown",
		EventType:      "Unknown",
		Date:           "Unknown",
		Synopsis:       FallbackSynopsis,
		Deadline:       "Unknown",
		TargetAudience: DefaultAudience,
		ParseError:     true,
	}
}
