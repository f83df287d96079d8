package events

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsort/pkg/database"
	"eventsort/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a second connection would see an empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(database.Schema)
	require.NoError(t, err)
	return db
}

func sampleEvent() models.CanonicalEvent {
	fee := 10.0
	return models.CanonicalEvent{
		Title:          "AI Talk",
		EventType:      "Talk",
		Date:           "4 Nov 2025, 5:30 PM",
		Location:       "LT19",
		Synopsis:       "An evening talk.",
		Organisation:   "NUS Hackers",
		Fee:            &fee,
		SignupLink:     "https://example.com/go",
		Deadline:       "3 Nov 2025",
		TargetAudience: "CS students",
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	rec, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw forwarded text")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Positive(t, rec.ID)
	assert.Equal(t, int64(42), rec.UserID)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "AI Talk", rec.Title)
	require.NotNil(t, rec.Fee)
	assert.Equal(t, 10.0, *rec.Fee)
	assert.Equal(t, "raw forwarded text", rec.RawMessage)
	assert.Nil(t, rec.UserInterested)
	assert.False(t, rec.ParseError)
	assert.False(t, rec.DateCreated.IsZero())
}

func TestGetByIDIsOwnerScoped(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	rec, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)

	other, err := repo.GetByID(ctx, rec.ID, 99)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSaveNilOptionalFields(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	ev := models.CanonicalEvent{
		Title:          "Unknown",
		EventType:      "Unknown",
		Date:           "Unknown",
		Synopsis:       "fallback",
		Deadline:       "Unknown",
		TargetAudience: "all students",
		ParseError:     true,
	}
	rec, err := repo.Save(ctx, ev, 42, "alice", "raw")
	require.NoError(t, err)

	assert.Nil(t, rec.Fee)
	assert.Empty(t, rec.Location)
	assert.True(t, rec.ParseError)
}

func TestSwipeFlow(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	first, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)
	second, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)

	pending, err := repo.ListPending(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	ok, err := repo.UpdateInterest(ctx, first.ID, 42, true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateInterest(ctx, second.ID, 42, false)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err = repo.ListPending(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, pending)

	interested, err := repo.ListInterested(ctx, 42)
	require.NoError(t, err)
	require.Len(t, interested, 1)
	assert.Equal(t, first.ID, interested[0].ID)
	require.NotNil(t, interested[0].UserInterested)
	assert.True(t, *interested[0].UserInterested)
}

func TestUpdateInterestWrongUser(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	rec, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)

	ok, err := repo.UpdateInterest(ctx, rec.ID, 99, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	a, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)
	b, err := repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)
	_, err = repo.Save(ctx, sampleEvent(), 42, "alice", "raw")
	require.NoError(t, err)
	// someone else's event must not leak into the numbers
	_, err = repo.Save(ctx, sampleEvent(), 7, "bob", "raw")
	require.NoError(t, err)

	_, err = repo.UpdateInterest(ctx, a.ID, 42, true)
	require.NoError(t, err)
	_, err = repo.UpdateInterest(ctx, b.ID, 42, false)
	require.NoError(t, err)

	s, err := repo.Stats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalEvents: 3, Interested: 1, NotInterested: 1, PendingSwipes: 1}, s)
}
