package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOracle returns a canned answer (or error) and records the prompt.
type stubOracle struct {
	answer    string
	err       error
	prompt    string
	maxTokens int
}

func (s *stubOracle) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	s.prompt = prompt
	s.maxTokens = maxTokens
	return s.answer, s.err
}

const goodAnswer = `{
	"title": "**AI Talk**",
	"event_type": "talk",
	"fee": "Free",
	"target_audience": "all students",
	"date": "1 Jan 2026",
	"synopsis": "An evening talk on applied AI.",
	"deadline": "31 Dec 2025"
}`

func TestExtractEndToEnd(t *testing.T) {
	oracle := &stubOracle{answer: goodAnswer}
	ev, err := Extract(context.Background(), oracle, "forwarded announcement text")
	require.NoError(t, err)

	assert.Equal(t, "AI Talk", ev.Title)
	assert.Equal(t, "Talk", ev.EventType)
	require.NotNil(t, ev.Fee)
	assert.Equal(t, 0.0, *ev.Fee)
	assert.Equal(t, "all students", ev.TargetAudience)
	assert.False(t, ev.ParseError)

	out := Format(ev)
	assert.NotContains(t, out, "Fee:")
	assert.NotContains(t, out, "For:")

	assert.Contains(t, oracle.prompt, "forwarded announcement text")
	assert.Equal(t, MaxResponseTokens, oracle.maxTokens)
}

func TestExtractStripsCodeFence(t *testing.T) {
	for _, answer := range []string{
		"```json\n" + goodAnswer + "\n```",
		"```json" + goodAnswer + "```", // no newline after the tag
	} {
		oracle := &stubOracle{answer: answer}
		ev, err := Extract(context.Background(), oracle, "msg")
		require.NoError(t, err)
		assert.Equal(t, "AI Talk", ev.Title)
		assert.False(t, ev.ParseError)
	}
}

func TestExtractMalformedAnswerFallsBack(t *testing.T) {
	for _, answer := range []string{
		"I'm sorry, I can't find an event here.",
		`{"title": "truncated`,
		"",
	} {
		oracle := &stubOracle{answer: answer}
		ev, err := Extract(context.Background(), oracle, "msg")
		require.NoError(t, err, "answer %q", answer)

		assert.True(t, ev.ParseError)
		// fallback must still satisfy the required-field invariant
		for _, field := range []string{ev.Title, ev.EventType, ev.Date, ev.Synopsis, ev.Deadline, ev.TargetAudience} {
			assert.NotEmpty(t, field)
			assert.NotEqual(t, "TBC", field)
		}
		assert.Equal(t, FallbackSynopsis, ev.Synopsis)
		assert.Equal(t, DefaultAudience, ev.TargetAudience)
		assert.Nil(t, ev.Fee)
	}
}

func TestExtractDefaultsMissingRequiredFields(t *testing.T) {
	oracle := &stubOracle{answer: `{"title": "Hack Night", "fee": "TBC"}`}
	ev, err := Extract(context.Background(), oracle, "msg")
	require.NoError(t, err)

	assert.False(t, ev.ParseError)
	assert.Equal(t, "Hack Night", ev.Title)
	assert.Equal(t, "Unknown", ev.EventType)
	assert.Equal(t, "Unknown", ev.Date)
	assert.Equal(t, "Unknown", ev.Synopsis)
	assert.Equal(t, "Unknown", ev.Deadline)
	assert.Equal(t, DefaultAudience, ev.TargetAudience)
	assert.Nil(t, ev.Fee)
}

func TestExtractPlaceholderRequiredFieldsBecomeUnknown(t *testing.T) {
	oracle := &stubOracle{answer: `{"title": "TBC", "event_type": "tbc", "date": "4 Nov 2025", "synopsis": "x", "deadline": "None", "target_audience": "TBC"}`}
	ev, err := Extract(context.Background(), oracle, "msg")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", ev.Title)
	assert.Equal(t, "Unknown", ev.EventType)
	// "None" is a real answer for ongoing events, not a placeholder
	assert.Equal(t, "None", ev.Deadline)
	assert.Equal(t, DefaultAudience, ev.TargetAudience)
}

func TestExtractTransportErrorPropagates(t *testing.T) {
	wantErr := errors.New("rate limited")
	oracle := &stubOracle{err: wantErr}
	_, err := Extract(context.Background(), oracle, "msg")
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stripCodeFence(tc.in), "input %q", tc.in)
	}
}

func TestBuildPromptContract(t *testing.T) {
	p := BuildPrompt("hello world")
	assert.Contains(t, p, "hello world")
	assert.Contains(t, p, "ONLY valid JSON")
	assert.Contains(t, p, "24 hours before")
	for _, et := range EventTypes {
		assert.Contains(t, p, et)
	}
}
