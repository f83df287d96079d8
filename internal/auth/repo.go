package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL bounds how long a one-time login token stays redeemable.
const TokenTTL = 10 * time.Minute

// Repo stores one-time login tokens the bot hands to users. A token is
// "id.secret"; only a bcrypt hash of the secret is persisted, so a leaked
// database cannot mint sessions.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type LoginToken struct {
	UserID   int64
	Username string
}

// Issue creates a fresh one-time token for the user and returns it in
// redeemable form.
func (r *Repo) Issue(ctx context.Context, userID int64, username string) (string, error) {
	id := uuid.NewString()
	secret := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token secret: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO login_tokens (token_id, secret_hash, user_id, username)
		VALUES (?, ?, ?, ?)
	`, id, string(hash), userID, username)
	if err != nil {
		return "", fmt.Errorf("insert login token: %w", err)
	}

	return id + "." + secret, nil
}

// Redeem validates a token, burns it, and returns who it belongs to.
// Returns (nil, nil) for anything invalid, expired or already used.
func (r *Repo) Redeem(ctx context.Context, token string) (*LoginToken, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return nil, nil
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT secret_hash, user_id, username, used, created_at
		FROM login_tokens
		WHERE token_id = ?
	`, id)

	var (
		hash     string
		userID   int64
		username sql.NullString
		used     bool
		created  time.Time
	)
	if err := row.Scan(&hash, &userID, &username, &used, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get login token: %w", err)
	}

	if used || time.Since(created) > TokenTTL {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return nil, nil
	}

	// the used guard in the WHERE clause makes concurrent redeems race-safe
	res, err := r.DB.ExecContext(ctx, `
		UPDATE login_tokens
		SET used = 1
		WHERE token_id = ? AND used = 0
	`, id)
	if err != nil {
		return nil, fmt.Errorf("mark token used: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, nil
	}

	return &LoginToken{UserID: userID, Username: username.String}, nil
}

// PurgeExpired removes stale tokens; the bot calls it opportunistically.
func (r *Repo) PurgeExpired(ctx context.Context) error {
	// created_at defaults to CURRENT_TIMESTAMP, a bare UTC string; the
	// cutoff must be formatted the same way or sqlite's lexicographic
	// comparison mixes zones and purges fresh tokens on non-UTC hosts
	cutoff := time.Now().UTC().Add(-TokenTTL).Format("2006-01-02 15:04:05")
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM login_tokens
		WHERE used = 1 OR created_at < ?
	`, cutoff)
	if err != nil {
		return fmt.Errorf("purge login tokens: %w", err)
	}
	return nil
}
