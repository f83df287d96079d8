package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsort/pkg/models"
)

var sgt = time.FixedZone("SGT", 8*60*60)

// fixed clock: 1 Nov 2025, 12:00 SGT
var testNow = time.Date(2025, time.November, 1, 12, 0, 0, 0, sgt)

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{
		"":         WindowUpcoming,
		"all":      WindowAll,
		"upcoming": WindowUpcoming,
		"urgent":   WindowUrgent,
		" Urgent ": WindowUrgent,
	} {
		got, ok := ParseWindow(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, ok := ParseWindow("soonish")
	assert.False(t, ok)
}

func TestParseEventDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"4 Nov 2025, 5:30 PM", time.Date(2025, time.November, 4, 17, 30, 0, 0, sgt)},
		{"4 Nov 2025", time.Date(2025, time.November, 4, 0, 0, 0, 0, sgt)},
		{"8-9 Nov 2025", time.Date(2025, time.November, 8, 0, 0, 0, 0, sgt)},
		{"4 Nov, 5:30 PM", time.Date(2025, time.November, 4, 17, 30, 0, 0, sgt)},
		{"4 Nov 2025, doors open 5 PM", time.Date(2025, time.November, 4, 0, 0, 0, 0, sgt)},
	}
	for _, tc := range cases {
		got, ok := ParseEventDate(tc.in, testNow)
		require.True(t, ok, "input %q", tc.in)
		assert.True(t, got.Equal(tc.want), "input %q: got %v want %v", tc.in, got, tc.want)
	}
}

func TestParseEventDateSentinelsAndJunk(t *testing.T) {
	for _, in := range []string{"", "TBC", "Ongoing", "None", "every Tuesday evening"} {
		_, ok := ParseEventDate(in, testNow)
		assert.False(t, ok, "input %q", in)
	}
}

func rec(title, date string) models.EventRecord {
	return models.EventRecord{
		CanonicalEvent: models.CanonicalEvent{Title: title, Date: date},
	}
}

func titles(recs []models.EventRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func TestFilterByWindow(t *testing.T) {
	all := []models.EventRecord{
		rec("past", "1 Oct 2025"),
		rec("today", "1 Nov 2025, 9:00 AM"), // started this morning, still same-day
		rec("this week", "5 Nov 2025"),
		rec("next month", "5 Dec 2025"),
		rec("unparseable", "TBC"),
	}

	assert.Len(t, FilterByWindow(all, WindowAll, testNow), 5)

	up := FilterByWindow(all, WindowUpcoming, testNow)
	assert.Equal(t, []string{"today", "this week", "next month", "unparseable"}, titles(up))

	urgent := FilterByWindow(all, WindowUrgent, testNow)
	assert.Equal(t, []string{"today", "this week"}, titles(urgent))
}
