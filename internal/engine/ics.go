package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-calendar/internal/config"
)

// ExportICS encodes events as an iCalendar document.
// Times are written in UTC; now stamps every event.
func ExportICS(events []Event, now time.Time) ([]byte, error) {
	// Return the stub so feed clients never see an invalid empty calendar.
	if len(events) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	for _, e := range events {
		cal.Children = append(cal.Children, toVEvent(e, dtStamp).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgFeedPublished,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(events),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

func toVEvent(e Event, dtStamp *ical.Prop) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(config.PropUID, e.ID)
	ev.Props.Set(dtStamp)
	ev.Props.SetText(config.PropSummary, e.Title)

	start := ical.NewProp(config.PropDTStart)
	start.SetDateTime(e.Start.UTC())
	ev.Props.Set(start)

	end := ical.NewProp(config.PropDTEnd)
	end.SetDateTime(e.End.UTC())
	ev.Props.Set(end)

	if e.Description != "" {
		ev.Props.SetText(config.PropDescription, e.Description)
	}
	if e.Location != "" {
		ev.Props.SetText(config.PropLocation, e.Location)
	}
	ev.Props.SetText(config.PropColor, e.Color.CSSName())
	return ev
}
