// Package seed provides the events a fresh session starts with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"gopkg.in/yaml.v3"
)

// File is the YAML document accepted by --seed.
type File struct {
	Events []Entry `yaml:"events"`
}

// Entry describes one event either with absolute start/end timestamps
// (RFC 3339 or YYYY-MM-DDTHH:MM in local time) or relative to today with
// day_offset plus at/until clock times (HH:MM).
type Entry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Location    string `yaml:"location,omitempty"`
	Color       string `yaml:"color,omitempty"`

	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`

	DayOffset *int   `yaml:"day_offset,omitempty"`
	At        string `yaml:"at,omitempty"`
	Until     string `yaml:"until,omitempty"`
}

// ErrInvalidEntry wraps every per-entry problem.
var ErrInvalidEntry = errors.New(config.ErrSeedEvent)

// Defaults returns the two sample events of a new session: a design review
// today and a team lunch two days later.
func Defaults(now time.Time) []engine.EventInput {
	today := engine.StartOfDay(now)
	lunch := today.AddDate(0, 0, config.SeedDayOffsetLunch)

	return []engine.EventInput{
		{
			Title:       "Design Review",
			Start:       engine.AtClock(today, 10, 0),
			End:         engine.AtClock(today, 11, 30),
			Color:       engine.ColorIndigo,
			Description: "Review new calendar mockups.",
			Location:    "Conference Room A",
		},
		{
			Title:    "Team Lunch",
			Start:    engine.AtClock(lunch, 12, 0),
			End:      engine.AtClock(lunch, 14, 0),
			Color:    engine.ColorGreen,
			Location: "Taco Place",
		},
	}
}

// Input resolves the entry against now.
func (e Entry) Input(now time.Time) (engine.EventInput, error) {
	in := engine.EventInput{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Color:       engine.Color(strings.ToLower(strings.TrimSpace(e.Color))),
	}

	loc := now.Location()
	switch {
	case e.Start != "":
		start, err := parseTime(e.Start, loc)
		if err != nil {
			return in, err
		}
		end := start.Add(config.DefaultEventDuration)
		if e.End != "" {
			if end, err = parseTime(e.End, loc); err != nil {
				return in, err
			}
		}
		in.Start, in.End = start, end

	case e.DayOffset != nil && e.At != "":
		day := engine.StartOfDay(now).AddDate(0, 0, *e.DayOffset)
		start, err := clockOn(day, e.At)
		if err != nil {
			return in, err
		}
		end := start.Add(config.DefaultEventDuration)
		if e.Until != "" {
			if end, err = clockOn(day, e.Until); err != nil {
				return in, err
			}
		}
		in.Start, in.End = start, end

	default:
		return in, fmt.Errorf("%w: %s", ErrInvalidEntry, config.ErrSeedTime)
	}

	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return in, nil
}

// Decode reads a seed document and resolves every valid entry.
// Invalid entries are logged and skipped.
func Decode(r io.Reader, now time.Time) ([]engine.EventInput, error) {
	var f File
	if err := yaml.NewDecoder(io.LimitReader(r, config.MaxSeedSize)).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", config.ErrSeedDecode, err)
	}

	inputs := make([]engine.EventInput, 0, len(f.Events))
	for i, entry := range f.Events {
		in, err := entry.Input(now)
		if err != nil {
			slog.Warn(config.MsgSkippedSeedEvt,
				config.LogKeyComponent, config.CompSeed,
				config.LogKeyIndex, i,
				config.LogKeyTitle, entry.Title,
				config.LogKeyError, err,
			)
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// Load returns the built-in defaults when source is empty, otherwise the
// events of the YAML file or http(s) URL it names.
func Load(ctx context.Context, source string, now time.Time, fetcher Fetcher) ([]engine.EventInput, error) {
	if source == "" {
		slog.Info(config.MsgSeedDefaults, config.LogKeyComponent, config.CompSeed)
		return Defaults(now), nil
	}

	rc, err := open(ctx, source, fetcher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeedRead, err)
	}
	defer func() { _ = rc.Close() }()

	inputs, err := Decode(rc, now)
	if err != nil {
		return nil, err
	}

	slog.Info(config.MsgSeedLoaded,
		config.LogKeyComponent, config.CompSeed,
		config.LogKeySource, source,
		config.LogKeyCount, len(inputs),
	)
	return inputs, nil
}

// Populate adds inputs to store, logging and skipping rejected ones.
// It returns the number of events added.
func Populate(store *engine.Store, inputs []engine.EventInput) int {
	added := 0
	for _, in := range inputs {
		if _, err := store.Add(in); err != nil {
			slog.Warn(config.MsgSkippedSeedEvt,
				config.LogKeyComponent, config.CompSeed,
				config.LogKeyTitle, in.Title,
				config.LogKeyError, err,
			)
			continue
		}
		added++
	}
	return added
}

func open(ctx context.Context, source string, fetcher Fetcher) (io.ReadCloser, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		if fetcher == nil {
			fetcher = NewHTTPFetcher()
		}
		return fetcher.Fetch(ctx, source)
	}
	return os.Open(source)
}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(config.LayoutRFC3339, value); err == nil {
		return t.In(loc), nil
	}
	t, err := engine.ParseLocalInput(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return t, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	c, err := time.Parse(config.LayoutClockHHMM, strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return engine.AtClock(day, c.Hour(), c.Minute()), nil
}
