// Package assist turns free text into event drafts with a hosted language model.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// Generator sends a prompt to a language model and returns its raw text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Outcomes of Parse. Callers treat ErrUnavailable and ErrFailed the same way
// (the form is left untouched) but they are logged at different levels.
var (
	ErrEmptyInput  = errors.New(config.ErrAIEmptyInput)
	ErrUnavailable = errors.New(config.ErrAIUnavailable)
	ErrFailed      = errors.New(config.ErrAIFailed)
)

// Parser resolves natural-language event descriptions against a reference time.
type Parser struct {
	// Generator is nil when no API key is configured.
	Generator Generator

	// Locale renders the human part of the reference date in the prompt.
	Locale engine.Locale

	// Timeout bounds a single request. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewParser creates a parser with the default request timeout.
func NewParser(gen Generator, loc engine.Locale) *Parser {
	return &Parser{
		Generator: gen,
		Locale:    loc,
		Timeout:   config.AIRequestTimeout,
	}
}

// Available reports whether a request can be attempted at all.
func (p *Parser) Available() bool {
	return p != nil && p.Generator != nil
}

// Parse asks the model for a draft of the event described by input.
// Relative expressions are resolved against reference, whose location is
// also used for timestamps the model returns without an offset.
func (p *Parser) Parse(ctx context.Context, input string, reference time.Time) (engine.Draft, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return engine.Draft{}, ErrEmptyInput
	}

	log := slog.With(config.LogKeyComponent, config.CompAssist)

	if !p.Available() {
		log.Warn(config.ErrAIUnavailable)
		return engine.Draft{}, ErrUnavailable
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	started := time.Now()
	log.Debug(config.MsgAIRequest, config.LogKeyChars, len(text))

	reply, err := p.Generator.Generate(ctx, BuildPrompt(text, reference, p.Locale))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info(config.MsgAICancelled)
		} else {
			log.Error(config.ErrAIFailed, config.LogKeyError, err)
		}
		return engine.Draft{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	draft, err := DecodeDraft(reply, reference)
	if err != nil {
		log.Error(config.ErrAIFailed, config.LogKeyError, err)
		return engine.Draft{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	log.Info(config.MsgAIParsed,
		config.LogKeyTitle, draft.Title,
		config.LogKeyStart, draft.Start,
		config.LogKeyDuration, time.Since(started).Milliseconds(),
	)
	return draft, nil
}

// BuildPrompt assembles the instruction sent to the model.
func BuildPrompt(text string, reference time.Time, loc engine.Locale) string {
	human := engine.FormatFullDate(reference, loc) + " " +
		fmt.Sprint(reference.Year()) + " " +
		engine.FormatTimeOfDay(reference, loc)
	return fmt.Sprintf(config.AIPromptTemplate, text, reference.Format(config.LayoutRFC3339), human)
}

// reply mirrors config.AIResponseSchema.
type reply struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// DecodeDraft converts the model's JSON answer into a draft.
// A missing or unusable end becomes start plus the default duration.
func DecodeDraft(raw string, reference time.Time) (engine.Draft, error) {
	var r reply
	if err := json.Unmarshal([]byte(stripFence(raw)), &r); err != nil {
		return engine.Draft{}, fmt.Errorf("%s: %w", config.ErrAIDecode, err)
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		return engine.Draft{}, fmt.Errorf("%s: title", config.ErrAIMissingFld)
	}
	if strings.TrimSpace(r.Start) == "" {
		return engine.Draft{}, fmt.Errorf("%s: start", config.ErrAIMissingFld)
	}

	loc := reference.Location()
	start, err := parseTimestamp(r.Start, loc)
	if err != nil {
		return engine.Draft{}, err
	}

	end, err := parseTimestamp(r.End, loc)
	if err != nil || end.Before(start) {
		slog.Debug(config.MsgAIEndRepaired,
			config.LogKeyComponent, config.CompAssist,
			config.LogKeyEnd, r.End,
		)
		end = start.Add(config.DefaultEventDuration)
	}

	return engine.Draft{
		Title:       title,
		Start:       start,
		End:         end,
		Description: strings.TrimSpace(r.Description),
		Location:    strings.TrimSpace(r.Location),
	}, nil
}

// parseTimestamp accepts RFC 3339 or an offset-less ISO date-time taken in loc.
// The result is expressed in loc.
func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(config.LayoutRFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{config.LayoutISOSeconds, config.LayoutLocalInput} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", config.ErrAITimestamp, value)
}

// stripFence removes a Markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
