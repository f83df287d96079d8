package database

// Schema mirrors docs/schema.sql. Keep the two in sync.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    user_id INTEGER NOT NULL,
    username TEXT,

    title TEXT NOT NULL,
    event_type TEXT NOT NULL,
    date TEXT NOT NULL,
    location TEXT,
    synopsis TEXT NOT NULL,
    organisation TEXT,
    fee REAL,
    signup_link TEXT,
    deadline TEXT,
    target_audience TEXT,
    refreshments TEXT,
    key_speakers TEXT,
    contacts TEXT,

    raw_message TEXT NOT NULL,

    user_interested INTEGER,

    parse_error INTEGER NOT NULL DEFAULT 0,
    date_created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id, user_interested);

CREATE TABLE IF NOT EXISTS login_tokens (
    token_id TEXT PRIMARY KEY,
    secret_hash TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    username TEXT,
    used INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
