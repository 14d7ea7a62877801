package seed_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/seed"
)

// MockFetcher simulates the network layer using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// now is Wednesday, March 13th 2024, 16:45 local.
var now = time.Date(2024, 3, 13, 16, 45, 0, 0, time.FixedZone("CET", 60*60))

const sampleYAML = `
events:
  - title: Design Review
    day_offset: 0
    at: "10:00"
    until: "11:30"
    color: Indigo
    description: Review new calendar mockups.
    location: Conference Room A
  - title: Conference
    start: 2024-03-20T09:00:00+01:00
    end: 2024-03-20T17:00:00+01:00
  - title: Call
    start: "2024-03-21T08:30"
  - title: Broken
    day_offset: 1
  - title: ""
    day_offset: 1
    at: "09:00"
  - title: Backwards
    start: "2024-03-21T10:00"
    end: "2024-03-21T09:00"
`

func TestDefaults(t *testing.T) {
	inputs := seed.Defaults(now)
	require.Len(t, inputs, 2)

	review := inputs[0]
	assert.Equal(t, "Design Review", review.Title)
	assert.Equal(t, time.Date(2024, 3, 13, 10, 0, 0, 0, now.Location()), review.Start)
	assert.Equal(t, 90*time.Minute, review.End.Sub(review.Start))
	assert.Equal(t, engine.ColorIndigo, review.Color)
	assert.Equal(t, "Conference Room A", review.Location)

	lunch := inputs[1]
	assert.Equal(t, "Team Lunch", lunch.Title)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, now.Location()), lunch.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 0, 0, 0, now.Location()), lunch.End)
	assert.Equal(t, engine.ColorGreen, lunch.Color)

	for _, in := range inputs {
		assert.NoError(t, in.Validate())
	}
}

func TestDecode_SkipsInvalidEntries(t *testing.T) {
	inputs, err := seed.Decode(strings.NewReader(sampleYAML), now)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, "Design Review", inputs[0].Title)
	assert.Equal(t, engine.ColorIndigo, inputs[0].Color, "color tags are case-insensitive")
	assert.Equal(t, time.Date(2024, 3, 13, 11, 30, 0, 0, now.Location()), inputs[0].End)

	assert.Equal(t, "Conference", inputs[1].Title)
	assert.True(t, inputs[1].Start.Equal(time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Call", inputs[2].Title)
	assert.Equal(t, time.Hour, inputs[2].End.Sub(inputs[2].Start), "missing end uses the default duration")
}

func TestDecode_Empty(t *testing.T) {
	inputs, err := seed.Decode(strings.NewReader(""), now)
	assert.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := seed.Decode(strings.NewReader("events: [unclosed"), now)
	assert.Error(t, err)
}

func TestEntry_Input_Errors(t *testing.T) {
	offset := 1
	tests := []struct {
		name  string
		entry seed.Entry
	}{
		{"No timing", seed.Entry{Title: "x"}},
		{"Bad clock", seed.Entry{Title: "x", DayOffset: &offset, At: "25:99"}},
		{"Bad start", seed.Entry{Title: "x", Start: "next week"}},
		{"Unknown color", seed.Entry{Title: "x", Start: "2024-03-21T08:30", Color: "teal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.entry.Input(now)
			assert.ErrorIs(t, err, seed.ErrInvalidEntry)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	inputs, err := seed.Load(context.Background(), "", now, nil)
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events"+config.ExtYAML)
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), config.FilePermUserRW))

	inputs, err := seed.Load(context.Background(), path, now, nil)
	require.NoError(t, err)
	assert.Len(t, inputs, 3)

	_, err = seed.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), now, nil)
	assert.Error(t, err)
}

func TestLoad_URLUsesFetcher(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://example.com/events.yaml").
		Return(io.NopCloser(strings.NewReader(sampleYAML)), nil)

	inputs, err := seed.Load(context.Background(), "https://example.com/events.yaml", now, fetcher)
	require.NoError(t, err)
	assert.Len(t, inputs, 3)
	fetcher.AssertExpectations(t)
}

func TestPopulate(t *testing.T) {
	store := engine.NewStore()
	inputs := append(seed.Defaults(now), engine.EventInput{Title: "no times"})

	assert.Equal(t, 2, seed.Populate(store, inputs))
	assert.Equal(t, 2, store.Len())
}

// -----------------------------------------------------------------------------
// HTTPFetcher
// -----------------------------------------------------------------------------

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent), "User-Agent mismatch")
		_, _ = w.Write([]byte(sampleYAML))
	}))
	defer ts.Close()

	rc, err := seed.NewHTTPFetcher().Fetch(context.Background(), ts.URL+"/events.yaml?token=secret")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleYAML, string(body))
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := seed.NewHTTPFetcher()

	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(context.Background(), "ftp://example.com/events.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)

	_, err = f.Fetch(context.Background(), "http://[::1]:namedport")
	assert.Error(t, err)
}

func TestHTTPFetcher_SizeLimit(t *testing.T) {
	big := strings.Repeat("x", config.MaxSeedSize+100)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(big))
	}))
	defer ts.Close()

	rc, err := seed.NewHTTPFetcher().Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Len(t, body, config.MaxSeedSize)
}
