package models

import "time"

// RawExtraction is the oracle's direct JSON answer for one forwarded
// message. Everything arrives as free text except fee, which the model
// sometimes returns as a bare number. Transient: it is normalized into a
// CanonicalEvent immediately and never persisted.
type RawExtraction struct {
	Title          string `json:"title"`
	EventType      string `json:"event_type"`
	Date           string `json:"date"`
	Location       string `json:"location"`
	Synopsis       string `json:"synopsis"`
	Organisation   string `json:"organisation"`
	Fee            any    `json:"fee"` // string or number
	SignupLink     string `json:"signup_link"`
	Deadline       string `json:"deadline"`
	TargetAudience string `json:"target_audience"`
	Refreshments   string `json:"refreshments"`
	KeySpeakers    string `json:"key_speakers"`
	Contacts       string `json:"contacts"`
}

// CanonicalEvent is the normalized, storage-ready form of an extracted
// event. After normalization the required fields (Title, EventType, Date,
// Synopsis, Deadline, TargetAudience) are never empty or "TBC"; they fall
// back to "Unknown" ("all students" for TargetAudience). Fee is nil when
// unknown, 0 when free, positive when paid.
type CanonicalEvent struct {
	Title          string   `json:"title"`
	EventType      string   `json:"event_type"`
	Date           string   `json:"date"`
	Location       string   `json:"location,omitempty"`
	Synopsis       string   `json:"synopsis"`
	Organisation   string   `json:"organisation,omitempty"`
	Fee            *float64 `json:"fee"`
	SignupLink     string   `json:"signup_link,omitempty"`
	Deadline       string   `json:"deadline"`
	TargetAudience string   `json:"target_audience"`
	Refreshments   string   `json:"refreshments,omitempty"`
	KeySpeakers    string   `json:"key_speakers,omitempty"`
	Contacts       string   `json:"contacts,omitempty"`
	ParseError     bool     `json:"parse_error"`
}

// EventRecord is a persisted event: the canonical fields plus audit
// columns and the swipe flag. UserInterested is nil until the user swipes.
type EventRecord struct {
	ID int64 `json:"id"`

	UserID   int64  `json:"user_id"`
	Username string `json:"username"`

	CanonicalEvent

	RawMessage     string    `json:"raw_message,omitempty"`
	UserInterested *bool     `json:"user_interested"`
	DateCreated    time.Time `json:"date_created"`
}
