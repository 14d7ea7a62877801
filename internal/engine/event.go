package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-calendar/internal/config"
)

// Color is the display tag of an event.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorIndigo Color = "indigo"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorAmber  Color = "amber"
	ColorPurple Color = "purple"

	DefaultColor = ColorBlue
)

// Palette lists the selectable colors in display order.
var Palette = []Color{ColorBlue, ColorIndigo, ColorRed, ColorGreen, ColorAmber, ColorPurple}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// OrDefault maps unknown or empty tags to DefaultColor.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// CSSName returns the CSS3 color keyword of c, as RFC 7986 COLOR expects.
// Every palette tag but amber is already a keyword.
func (c Color) CSSName() string {
	c = c.OrDefault()
	if c == ColorAmber {
		return config.CSSColorAmber
	}
	return string(c)
}

// Event is a single calendar entry held by the Store.
// ID is assigned once at creation and never changes.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       Color     `json:"color"`
	Location    string    `json:"location,omitempty"`
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// EventInput is the unvalidated content of the creation form.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Color       Color
}

// Draft is a candidate event produced by the natural-language parser.
// It only ever pre-fills the form.
type Draft struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// Input converts the draft to form content with the given color.
func (d Draft) Input(c Color) EventInput {
	return EventInput{
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Start:       d.Start,
		End:         d.End,
		Color:       c,
	}
}

// Validation errors returned by EventInput.Validate and Store.Add.
var (
	ErrTitleRequired  = errors.New(config.ErrTitleRequired)
	ErrStartRequired  = errors.New(config.ErrStartRequired)
	ErrEndRequired    = errors.New(config.ErrEndRequired)
	ErrEndBeforeStart = errors.New(config.ErrEndBeforeStart)
	ErrUnknownColor   = errors.New(config.ErrUnknownColor)
	ErrDuplicateID    = errors.New(config.ErrDuplicateID)
)

// Validate checks the form boundary rules.
// An end equal to the start is accepted; an end before it is not.
func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if in.Start.IsZero() {
		return ErrStartRequired
	}
	if in.End.IsZero() {
		return ErrEndRequired
	}
	if in.End.Before(in.Start) {
		return ErrEndBeforeStart
	}
	if in.Color != "" && !in.Color.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, in.Color)
	}
	return nil
}

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.NewString()
}

// NewEvent validates in and builds an Event whose ID comes from newID.
// A nil newID falls back to NewID.
func NewEvent(in EventInput, newID func() string) (Event, error) {
	if err := in.Validate(); err != nil {
		return Event{}, err
	}
	if newID == nil {
		newID = NewID
	}
	return Event{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Start:       in.Start,
		End:         in.End,
		Color:       in.Color.OrDefault(),
	}, nil
}
