package engine

import (
	"slices"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
)

// Day is one cell of the month grid. A fresh grid is built on every render.
type Day struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	IsToday        bool      `json:"isToday"`
	Events         []Event   `json:"events"`
}

// BuildGrid lays out a zero-based month as 42 contiguous days starting on a Sunday.
//
// The grid holds the tail of the previous month needed to align the 1st on its
// weekday, every day of the month, then the head of the next month. Cells are
// the first instants of their dates in now's location (see Midnight) and list
// the events starting on that date, in input order. Months outside 0-11
// normalize into the adjacent years.
func BuildGrid(year, month int, events []Event, now time.Time) []Day {
	loc := now.Location()
	first := MonthStart(year, month, loc)
	lead := int(first.Weekday())

	grid := make([]Day, 0, config.GridCells)
	for i := range config.GridCells {
		// Day offsets outside the month fold into its neighbours.
		date := Midnight(first.Year(), first.Month(), 1-lead+i, loc)
		grid = append(grid, Day{
			Date:           date,
			IsCurrentMonth: date.Year() == first.Year() && date.Month() == first.Month(),
			IsToday:        IsSameCalendarDay(date, now),
			Events:         startingOn(events, date),
		})
	}
	return grid
}

// EventsOn returns the events starting on day's calendar date, sorted by start.
// Events sharing a start keep their input order.
func EventsOn(events []Event, day time.Time) []Event {
	out := startingOn(events, day)
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

func startingOn(events []Event, day time.Time) []Event {
	out := []Event{}
	for _, e := range events {
		if IsSameCalendarDay(day, e.Start) {
			out = append(out, e)
		}
	}
	return out
}

// VisibleEvents splits a cell's events into those drawn and the overflow count.
func VisibleEvents(d Day) ([]Event, int) {
	if len(d.Events) <= config.MaxVisibleEvents {
		return d.Events, 0
	}
	return d.Events[:config.MaxVisibleEvents], len(d.Events) - config.MaxVisibleEvents
}
