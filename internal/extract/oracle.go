package extract

import (
	"context"
	"fmt"
)

// Oracle is the external text-completion service. Implementations may time
// out, return malformed JSON, or hallucinate fields; callers of Extract get
// transport errors back unchanged, while malformed JSON is absorbed by the
// fallback record.
type Oracle interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// MaxResponseTokens bounds the oracle's answer. 500 tokens comfortably fits
// the JSON object for any realistic announcement.
const MaxResponseTokens = 500

// EventTypes is the category list the prompt constrains event_type to.
// The normalizer does not reject values outside this set.
var EventTypes = []string{
	"talk", "workshop", "networking", "competition",
	"conference", "social", "career fair", "other",
}

func BuildPrompt(messageText string) string {
	return fmt.Sprintf(`Extract event details from this message and return ONLY valid JSON (no other text):

MESSAGE:
%s

RESPONSE FORMAT (JSON only):
{
    "title": "name of the event",
    "event_type": "one of: talk, workshop, networking, competition, conference, social, career fair, other",
    "date": "event date and start time (e.g., '4 Nov 2025, 5:30 PM')",
    "location": "venue or 'Online' if virtual",
    "synopsis": "brief description (1-2 sentences)",
    "organisation": "organizer/company/group name",
    "fee": "cost (e.g., '$10', 'Free', or 'TBC')",
    "signup_link": "URL to registration/signup",
    "deadline": "registration deadline; if no explicit deadline, estimate 24 hours before the event's start date/time; 'None' if ongoing",
    "target_audience": "who the event is for, or 'all students'",
    "refreshments": "food/drinks provided, if mentioned",
    "key_speakers": "notable speakers or guests, if mentioned",
    "contacts": "contact person/email, if mentioned"
}

Rules:
- Use "TBC" for any missing information
- For event_type, choose the BEST fit from the list
- Keep responses concise
- Return ONLY the JSON object, nothing else`, messageText)
}
