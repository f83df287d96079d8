package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventsort/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const eventColumns = `
	id, user_id, username,
	title, event_type, date, location, synopsis, organisation,
	fee, signup_link, deadline, target_audience, refreshments,
	key_speakers, contacts,
	raw_message, user_interested, parse_error, date_created`

// Save persists a canonical event for the given user and returns the
// stored record.
func (r *Repo) Save(ctx context.Context, ev models.CanonicalEvent, userID int64, username, rawMessage string) (*models.EventRecord, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO events (
			user_id, username,
			title, event_type, date, location, synopsis, organisation,
			fee, signup_link, deadline, target_audience, refreshments,
			key_speakers, contacts,
			raw_message, parse_error
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		userID, username,
		ev.Title, ev.EventType, ev.Date, nullString(ev.Location), ev.Synopsis, nullString(ev.Organisation),
		nullFloat(ev.Fee), nullString(ev.SignupLink), nullString(ev.Deadline), nullString(ev.TargetAudience), nullString(ev.Refreshments),
		nullString(ev.KeySpeakers), nullString(ev.Contacts),
		rawMessage, ev.ParseError,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// GetByID is owner-scoped: an event only resolves for the user who
// submitted it. Returns (nil, nil) when not found.
func (r *Repo) GetByID(ctx context.Context, id, userID int64) (*models.EventRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = ? AND user_id = ?
	`, id, userID)

	rec, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return rec, nil
}

// ListPending returns the user's not-yet-swiped events, newest first.
func (r *Repo) ListPending(ctx context.Context, userID int64) ([]models.EventRecord, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = ? AND user_interested IS NULL
		ORDER BY date_created DESC
	`, userID)
}

// ListInterested returns the events the user swiped right on.
func (r *Repo) ListInterested(ctx context.Context, userID int64) ([]models.EventRecord, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = ? AND user_interested = 1
		ORDER BY date_created DESC
	`, userID)
}

// ListByUser returns everything the user ever submitted.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]models.EventRecord, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = ?
		ORDER BY date_created DESC
	`, userID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]models.EventRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []models.EventRecord
	for rows.Next() {
		rec, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// UpdateInterest records a swipe. Reports false when the event does not
// exist or belongs to another user.
func (r *Repo) UpdateInterest(ctx context.Context, id, userID int64, interested bool) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE events
		SET user_interested = ?
		WHERE id = ? AND user_id = ?
	`, interested, id, userID)
	if err != nil {
		return false, fmt.Errorf("update interest: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

type Stats struct {
	TotalEvents   int `json:"total_events"`
	Interested    int `json:"interested"`
	NotInterested int `json:"not_interested"`
	PendingSwipes int `json:"pending_swipes"`
}

func (r *Repo) Stats(ctx context.Context, userID int64) (Stats, error) {
	var s Stats
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN user_interested = 1 THEN 1 END),
			COUNT(CASE WHEN user_interested = 0 THEN 1 END),
			COUNT(CASE WHEN user_interested IS NULL THEN 1 END)
		FROM events
		WHERE user_id = ?
	`, userID).Scan(&s.TotalEvents, &s.Interested, &s.NotInterested, &s.PendingSwipes)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.EventRecord, error) {
	var (
		rec          models.EventRecord
		location     sql.NullString
		organisation sql.NullString
		fee          sql.NullFloat64
		signupLink   sql.NullString
		deadline     sql.NullString
		audience     sql.NullString
		refreshments sql.NullString
		speakers     sql.NullString
		contacts     sql.NullString
		interested   sql.NullBool
		created      time.Time
	)

	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Username,
		&rec.Title, &rec.EventType, &rec.Date, &location, &rec.Synopsis, &organisation,
		&fee, &signupLink, &deadline, &audience, &refreshments,
		&speakers, &contacts,
		&rec.RawMessage, &interested, &rec.ParseError, &created,
	); err != nil {
		return nil, err
	}

	rec.Location = location.String
	rec.Organisation = organisation.String
	if fee.Valid {
		f := fee.Float64
		rec.Fee = &f
	}
	rec.SignupLink = signupLink.String
	rec.Deadline = deadline.String
	rec.TargetAudience = audience.String
	rec.Refreshments = refreshments.String
	rec.KeySpeakers = speakers.String
	rec.Contacts = contacts.String
	if interested.Valid {
		b := interested.Bool
		rec.UserInterested = &b
	}
	rec.DateCreated = created
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
