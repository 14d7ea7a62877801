package engine_test

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// countCurrent returns the number of in-month cells and the leading/trailing split.
func countCurrent(grid []engine.Day) (lead, current, trail int) {
	seenCurrent := false
	for _, d := range grid {
		switch {
		case d.IsCurrentMonth:
			current++
			seenCurrent = true
		case seenCurrent:
			trail++
		default:
			lead++
		}
	}
	return lead, current, trail
}

// TestBuildGrid_Invariants sweeps several decades and checks size,
// month coverage and day contiguity for every month.
func TestBuildGrid_Invariants(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	for year := 1995; year <= 2035; year++ {
		for month := 0; month < 12; month++ {
			grid := engine.BuildGrid(year, month, nil, now)
			require.Len(t, grid, 42, "year %d month %d", year, month)

			lead, current, trail := countCurrent(grid)
			assert.Equal(t, engine.DaysInMonth(year, month), current, "year %d month %d", year, month)
			assert.Equal(t, engine.FirstWeekdayOfMonth(year, month), lead, "year %d month %d", year, month)
			assert.Equal(t, 42, lead+current+trail)

			assert.Equal(t, time.Sunday, grid[0].Date.Weekday())
			for i := 1; i < len(grid); i++ {
				want := grid[i-1].Date.AddDate(0, 0, 1)
				if !assert.True(t, want.Equal(grid[i].Date), "gap at %d-%d cell %d", year, month, i) {
					return
				}
			}
		}
	}
}

// TestBuildGrid_NamedZones repeats the contiguity sweep in zones with
// daylight saving, including ones whose clocks skip midnight.
func TestBuildGrid_NamedZones(t *testing.T) {
	for _, name := range []string{"America/Santiago", "America/Sao_Paulo", "America/New_York", "Europe/Paris", "Australia/Lord_Howe"} {
		t.Run(name, func(t *testing.T) {
			loc, err := time.LoadLocation(name)
			require.NoError(t, err)
			now := time.Date(2020, 1, 15, 12, 0, 0, 0, loc)

			for year := 2015; year <= 2026; year++ {
				for month := 0; month < 12; month++ {
					grid := engine.BuildGrid(year, month, nil, now)
					require.Len(t, grid, 42)

					_, current, _ := countCurrent(grid)
					assert.Equal(t, engine.DaysInMonth(year, month), current, "%d-%d", year, month)

					for i := 1; i < len(grid); i++ {
						py, pm, pd := grid[i-1].Date.Date()
						wy, wm, wd := time.Date(py, pm, pd+1, 0, 0, 0, 0, time.UTC).Date()
						gy, gm, gd := grid[i].Date.Date()
						if !assert.Equal(t, [3]int{wy, int(wm), wd}, [3]int{gy, int(gm), gd}, "gap at %d-%d cell %d", year, month, i) {
							return
						}
						assert.Equal(t, loc, grid[i].Date.Location())
					}
				}
			}
		})
	}
}

// TestBuildGrid_SkippedMidnight covers days whose local midnight does not exist.
func TestBuildGrid_SkippedMidnight(t *testing.T) {
	tests := []struct {
		zone        string
		year, month int
		day         int
		start       time.Time // first instant of the day, in UTC
	}{
		{"America/Santiago", 2024, 8, 8, time.Date(2024, 9, 8, 4, 0, 0, 0, time.UTC)},
		{"America/Sao_Paulo", 2018, 10, 4, time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			require.NoError(t, err)

			now := time.Date(tt.year, time.Month(tt.month+1), tt.day, 15, 0, 0, 0, loc)
			ev := engine.Event{ID: "gap", Start: time.Date(tt.year, time.Month(tt.month+1), tt.day, 10, 0, 0, 0, loc)}
			grid := engine.BuildGrid(tt.year, tt.month, []engine.Event{ev}, now)

			// Both months put the transition day in cell 7.
			cell := grid[7]
			assert.Equal(t, tt.day, cell.Date.Day())
			assert.True(t, tt.start.Equal(cell.Date), "cell starts at %s", cell.Date)
			assert.Equal(t, 1, cell.Date.Hour(), "the day starts when the clock resumes")
			assert.True(t, cell.IsToday)
			assert.Equal(t, tt.day-1, grid[6].Date.Day())
			assert.Equal(t, tt.day+1, grid[8].Date.Day())

			hits := 0
			for i, d := range grid {
				hits += len(d.Events)
				if len(d.Events) > 0 {
					assert.Equal(t, 7, i)
				}
			}
			assert.Equal(t, 1, hits, "event appears exactly once")
		})
	}
}

func TestBuildGrid_MonthBoundaries(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name                 string
		year, month          int
		lead, current, trail int
		firstCell            time.Time
	}{
		{"January 2024 starts Monday", 2024, 0, 1, 31, 10, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"September 2024 starts Sunday", 2024, 8, 0, 30, 12, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"March 2025 is 31 days from Saturday", 2025, 2, 6, 31, 5, time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC)},
		{"February 2015 fills exactly four weeks", 2015, 1, 0, 28, 14, time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"December 2024 spills into 2025", 2024, 11, 0, 31, 11, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := engine.BuildGrid(tt.year, tt.month, nil, now)
			lead, current, trail := countCurrent(grid)

			assert.Equal(t, tt.lead, lead)
			assert.Equal(t, tt.current, current)
			assert.Equal(t, tt.trail, trail)
			assert.Equal(t, tt.firstCell, grid[0].Date)
		})
	}
}

func TestBuildGrid_YearWrap(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	jan := engine.BuildGrid(2024, 0, nil, now)
	assert.Equal(t, 2023, jan[0].Date.Year())
	assert.Equal(t, time.December, jan[0].Date.Month())
	assert.Equal(t, 31, jan[0].Date.Day())

	dec := engine.BuildGrid(2024, 11, nil, now)
	last := dec[len(dec)-1].Date
	assert.Equal(t, 2025, last.Year())
	assert.Equal(t, time.January, last.Month())

	// Month 12 of 2024 is January 2025.
	overflow := engine.BuildGrid(2024, 12, nil, now)
	want := engine.BuildGrid(2025, 0, nil, now)
	assert.Equal(t, want, overflow)
}

func TestBuildGrid_EventPlacement(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	target := engine.Event{ID: "a", Title: "Target", Start: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	other := engine.Event{ID: "b", Title: "Other month", Start: time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)}

	grid := engine.BuildGrid(2024, 2, []engine.Event{target, other}, now)

	hits := 0
	for _, d := range grid {
		for _, e := range d.Events {
			hits++
			assert.Equal(t, "a", e.ID)
			assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Date)
			assert.True(t, d.IsCurrentMonth)
		}
	}
	assert.Equal(t, 1, hits, "event appears exactly once")

	// March 1st 2024 is a Friday: five leading cells, the 15th is cell 19.
	require.Len(t, grid[19].Events, 1)
}

func TestBuildGrid_EventInAdjacentMonthCell(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	feb := engine.Event{ID: "feb", Start: time.Date(2024, 2, 26, 8, 0, 0, 0, time.UTC)}

	grid := engine.BuildGrid(2024, 2, []engine.Event{feb}, now)

	// The grid starts on Sunday Feb 25th; the 26th is the second cell.
	assert.False(t, grid[1].IsCurrentMonth)
	assert.Len(t, grid[1].Events, 1)
}

func TestBuildGrid_PreservesInputOrder(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := engine.Event{ID: "late", Start: time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)}
	early := engine.Event{ID: "early", Start: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)}

	grid := engine.BuildGrid(2024, 2, []engine.Event{late, early}, now)
	require.Len(t, grid[19].Events, 2)
	assert.Equal(t, "late", grid[19].Events[0].ID)
	assert.Equal(t, "early", grid[19].Events[1].ID)
}

func TestBuildGrid_LocalDateOfEvent(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, est)

	// 02:00 UTC on the 16th is still the 15th for a viewer in EST.
	ev := engine.Event{ID: "x", Start: time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)}
	grid := engine.BuildGrid(2024, 2, []engine.Event{ev}, now)

	assert.Len(t, grid[19].Events, 1)
	assert.Empty(t, grid[20].Events)
	assert.Equal(t, est, grid[19].Date.Location())
}

func TestBuildGrid_TodayMarker(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		want  int
		index int
	}{
		{"Today inside the month", time.Date(2024, 3, 20, 23, 59, 0, 0, time.UTC), 1, 24},
		{"Today in the leading days", time.Date(2024, 2, 27, 1, 0, 0, 0, time.UTC), 1, 2},
		{"Today outside the grid", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := engine.BuildGrid(2024, 2, nil, tt.now)
			count := 0
			for i, d := range grid {
				if d.IsToday {
					count++
					assert.Equal(t, tt.index, i)
				}
			}
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestEventsOn_SortsByStart(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	events := []engine.Event{
		{ID: "3", Start: day.Add(15 * time.Hour)},
		{ID: "other", Start: day.Add(30 * time.Hour)},
		{ID: "1", Start: day.Add(9 * time.Hour)},
		{ID: "2a", Start: day.Add(12 * time.Hour)},
		{ID: "2b", Start: day.Add(12 * time.Hour)},
	}

	got := engine.EventsOn(events, day)
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"1", "2a", "2b", "3"}, ids)
	assert.Empty(t, engine.EventsOn(events, day.AddDate(0, 0, 3)))
}

func TestVisibleEvents(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d events", n), func(t *testing.T) {
			d := engine.Day{Events: make([]engine.Event, n)}
			shown, more := engine.VisibleEvents(d)

			assert.LessOrEqual(t, len(shown), 3)
			assert.Equal(t, n, len(shown)+more)
			if n > 3 {
				assert.Equal(t, n-3, more)
			} else {
				assert.Zero(t, more)
			}
		})
	}
}
