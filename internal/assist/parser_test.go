package assist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/assist"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockGenerator simulates the language model using `testify/mock`.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// reference is Friday, March 15th 2024, 09:30 in a +01:00 zone.
var reference = time.Date(2024, 3, 15, 9, 30, 0, 0, time.FixedZone("CET", 60*60))

func newParser(gen assist.Generator) *assist.Parser {
	return assist.NewParser(gen, engine.DefaultLocale())
}

// -----------------------------------------------------------------------------
// Parse
// -----------------------------------------------------------------------------

func TestParse_Success(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return assert.Contains(t, p, "Lunch with Sam tomorrow at noon at Taco Place") &&
			assert.Contains(t, p, "2024-03-15T09:30:00+01:00") &&
			assert.Contains(t, p, "default duration of 1 hour")
	})).Return(`{
		"title": "Lunch with Sam",
		"start": "2024-03-16T12:00:00+01:00",
		"end": "2024-03-16T13:00:00+01:00",
		"location": "Taco Place"
	}`, nil).Once()

	draft, err := newParser(gen).Parse(context.Background(), "  Lunch with Sam tomorrow at noon at Taco Place ", reference)
	require.NoError(t, err)
	gen.AssertExpectations(t)

	assert.Equal(t, "Lunch with Sam", draft.Title)
	assert.Equal(t, "Taco Place", draft.Location)
	assert.Empty(t, draft.Description)
	assert.True(t, draft.Start.Equal(time.Date(2024, 3, 16, 11, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Hour, draft.End.Sub(draft.Start))
	assert.Equal(t, reference.Location(), draft.Start.Location(), "draft is expressed in the reference zone")
}

func TestParse_EmptyInputSkipsRequest(t *testing.T) {
	gen := new(MockGenerator)

	_, err := newParser(gen).Parse(context.Background(), "   ", reference)
	assert.ErrorIs(t, err, assist.ErrEmptyInput)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestParse_Unavailable(t *testing.T) {
	_, err := newParser(nil).Parse(context.Background(), "Dentist on Monday", reference)
	assert.ErrorIs(t, err, assist.ErrUnavailable)
	assert.NotErrorIs(t, err, assist.ErrFailed)

	var nilParser *assist.Parser
	assert.False(t, nilParser.Available())
	_, err = nilParser.Parse(context.Background(), "Dentist on Monday", reference)
	assert.ErrorIs(t, err, assist.ErrUnavailable)
}

func TestParse_Failures(t *testing.T) {
	boom := errors.New("quota exceeded")

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"Transport error", "", boom},
		{"Malformed JSON", "{not json", nil},
		{"Missing title", `{"start":"2024-03-16T12:00:00Z","end":"2024-03-16T13:00:00Z"}`, nil},
		{"Blank title", `{"title":"  ","start":"2024-03-16T12:00:00Z"}`, nil},
		{"Missing start", `{"title":"Lunch","end":"2024-03-16T13:00:00Z"}`, nil},
		{"Unparseable start", `{"title":"Lunch","start":"tomorrow noon"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err)

			_, err := newParser(gen).Parse(context.Background(), "Lunch tomorrow", reference)
			assert.ErrorIs(t, err, assist.ErrFailed)
			assert.NotErrorIs(t, err, assist.ErrUnavailable)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err, "cause is preserved")
			}
		})
	}
}

func TestParse_Cancelled(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newParser(gen).Parse(ctx, "Lunch tomorrow", reference)
	assert.ErrorIs(t, err, assist.ErrFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_TimeoutIsApplied(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(`{"title":"X","start":"2024-03-16T12:00:00Z"}`, nil)

	p := newParser(gen)
	p.Timeout = time.Minute

	_, err := p.Parse(context.Background(), "X tomorrow", reference)
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

// -----------------------------------------------------------------------------
// DecodeDraft
// -----------------------------------------------------------------------------

func TestDecodeDraft_EndRepair(t *testing.T) {
	tests := []struct {
		name string
		end  string
	}{
		{"Missing end", ``},
		{"Garbage end", `"end": "later",`},
		{"End before start", `"end": "2024-03-16T11:00:00+01:00",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{` + tt.end + `"title": "Call", "start": "2024-03-16T12:00:00+01:00"}`
			draft, err := assist.DecodeDraft(raw, reference)
			require.NoError(t, err)
			assert.Equal(t, time.Hour, draft.End.Sub(draft.Start))
		})
	}
}

func TestDecodeDraft_OffsetlessTimestamps(t *testing.T) {
	raw := `{"title":"Standup","start":"2024-03-18T09:00:00","end":"2024-03-18T09:15"}`

	draft, err := assist.DecodeDraft(raw, reference)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 18, 9, 0, 0, 0, reference.Location()), draft.Start)
	assert.Equal(t, time.Date(2024, 3, 18, 9, 15, 0, 0, reference.Location()), draft.End)
}

func TestDecodeDraft_CodeFence(t *testing.T) {
	raw := "```json\n{\"title\":\"Gym\",\"start\":\"2024-03-16T07:00:00Z\",\"end\":\"2024-03-16T08:00:00Z\",\"description\":\" Legs \"}\n```"

	draft, err := assist.DecodeDraft(raw, reference)
	require.NoError(t, err)
	assert.Equal(t, "Gym", draft.Title)
	assert.Equal(t, "Legs", draft.Description)
}

func TestBuildPrompt(t *testing.T) {
	p := assist.BuildPrompt("Dinner on Friday", reference, engine.DefaultLocale())

	assert.Contains(t, p, `"Dinner on Friday"`)
	assert.Contains(t, p, "2024-03-15T09:30:00+01:00")
	assert.Contains(t, p, "Friday, March 15 2024 9:30 AM")
	assert.Contains(t, p, "tomorrow")
}
