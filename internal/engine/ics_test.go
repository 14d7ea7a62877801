package engine_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

func TestExportICS_Empty(t *testing.T) {
	data, err := engine.ExportICS(nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestColor_CSSName(t *testing.T) {
	tests := []struct {
		color engine.Color
		want  string
	}{
		{engine.ColorBlue, "blue"},
		{engine.ColorIndigo, "indigo"},
		{engine.ColorRed, "red"},
		{engine.ColorGreen, "green"},
		{engine.ColorAmber, "orange"},
		{engine.ColorPurple, "purple"},
		{"", "blue"},
		{"teal", "blue"},
	}
	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.color.CSSName())
		})
	}
}

func TestExportICS_AmberIsOrange(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	data, err := engine.ExportICS([]engine.Event{
		{ID: "evt-a", Title: "Standup", Start: start, End: start.Add(time.Hour), Color: engine.ColorAmber},
	}, start)
	require.NoError(t, err)

	assert.Contains(t, string(data), "COLOR:orange")
	assert.NotContains(t, string(data), "amber")
}

func TestExportICS_Events(t *testing.T) {
	clock := MockClock{CurrentTime: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	cet := time.FixedZone("CET", 60*60)

	events := []engine.Event{
		{
			ID:          "evt-1",
			Title:       "Design Review",
			Description: "Review new calendar mockups.",
			Location:    "Conference Room A",
			Start:       time.Date(2024, 3, 15, 10, 0, 0, 0, cet),
			End:         time.Date(2024, 3, 15, 11, 30, 0, 0, cet),
			Color:       engine.ColorIndigo,
		},
		{
			ID:    "evt-2",
			Title: "Team Lunch",
			Start: time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 17, 13, 0, 0, 0, time.UTC),
		},
	}

	data, err := engine.ExportICS(events, clock.Now())
	require.NoError(t, err)

	ics := string(data)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "PRODID:"+config.ICalProdid)
	assert.Contains(t, ics, "UID:evt-1")
	assert.Contains(t, ics, "SUMMARY:Design Review")
	assert.Contains(t, ics, "DTSTART:20240315T090000Z", "start is converted to UTC")
	assert.Contains(t, ics, "DTEND:20240315T103000Z")
	assert.Contains(t, ics, "LOCATION:Conference Room A")
	assert.Contains(t, ics, "COLOR:indigo")
	assert.Contains(t, ics, "COLOR:blue", "missing color exported as the default")
	assert.Contains(t, ics, "DTSTAMP:20240314T090000Z")

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 2)
}
