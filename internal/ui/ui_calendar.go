package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// calendarView holds the widgets rewritten by Refresh.
type calendarView struct {
	monthLabel  *widget.Label
	prevBtn     *widget.Button
	nextBtn     *widget.Button
	todayBtn    *widget.Button
	addBtn      *widget.Button
	settingsBtn *widget.Button

	weekdays [config.GridColumns]*widget.Label
	cells    [config.GridCells]*dayCell

	dayTitle  *widget.Label
	agenda    *fyne.Container
	feedLabel *widget.Label
}

// dayCell is one tappable square of the month grid.
type dayCell struct {
	date   time.Time
	bg     *canvas.Rectangle
	number *widget.Label
	events *fyne.Container
	button *widget.Button
}

// swatches maps event colors to their display color.
var swatches = map[engine.Color]color.NRGBA{
	engine.ColorBlue:   {R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
	engine.ColorIndigo: {R: 0x63, G: 0x66, B: 0xf1, A: 0xff},
	engine.ColorRed:    {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	engine.ColorGreen:  {R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
	engine.ColorAmber:  {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
	engine.ColorPurple: {R: 0xa8, G: 0x55, B: 0xf7, A: 0xff},
}

// buildMainContent assembles the header, the grid and the sidebar.
func (app *CalendarApp) buildMainContent() fyne.CanvasObject {
	v := &calendarView{
		monthLabel: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		dayTitle:   widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		agenda:     container.NewVBox(),
		feedLabel:  widget.NewLabel(""),
	}
	app.view = v

	v.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), app.PrevMonth)
	v.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), app.NextMonth)
	v.todayBtn = widget.NewButton("", app.GoToday)
	v.addBtn = widget.NewButtonWithIcon("", theme.ContentAddIcon(), app.ShowEventDialog)
	v.addBtn.Importance = widget.HighImportance
	v.settingsBtn = widget.NewButtonWithIcon("", theme.SettingsIcon(), app.ShowSettingsWindow)

	header := container.NewBorder(nil, nil,
		container.NewHBox(v.prevBtn, v.nextBtn, v.monthLabel, v.todayBtn),
		container.NewHBox(v.addBtn, v.settingsBtn),
	)

	weekdayRow := container.NewGridWithColumns(config.GridColumns)
	for i := range v.weekdays {
		v.weekdays[i] = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		weekdayRow.Add(v.weekdays[i])
	}

	grid := container.NewGridWithColumns(config.GridColumns)
	for i := range v.cells {
		v.cells[i] = app.newDayCell()
		grid.Add(v.cells[i].object())
	}

	v.feedLabel.Wrapping = fyne.TextWrapBreak
	v.feedLabel.SizeName = theme.SizeNameCaptionText

	sidebar := container.NewBorder(v.dayTitle, v.feedLabel, nil, nil, container.NewVScroll(v.agenda))
	split := container.NewHSplit(container.NewBorder(weekdayRow, nil, nil, nil, grid), sidebar)
	split.Offset = config.SidebarOffset

	return container.NewBorder(header, nil, nil, nil, split)
}

func (app *CalendarApp) newDayCell() *dayCell {
	c := &dayCell{
		bg:     canvas.NewRectangle(color.Transparent),
		number: widget.NewLabel(""),
		events: container.NewVBox(),
	}
	c.bg.SetMinSize(fyne.NewSize(0, config.DayCellMinHeight))
	c.button = widget.NewButton("", func() { app.SelectDate(c.date) })
	c.button.Importance = widget.LowImportance
	return c
}

// object stacks the content over the button so taps anywhere select the day.
func (c *dayCell) object() fyne.CanvasObject {
	return container.NewStack(c.bg, c.button, container.NewBorder(c.number, nil, nil, nil, c.events))
}

// -----------------------------------------------------------------------------
// Navigation
// -----------------------------------------------------------------------------

// ShowMonth displays a zero-based month; overflow rolls into adjacent years.
func (app *CalendarApp) ShowMonth(year, month int) {
	app.Year, app.Month = engine.NormalizeMonth(year, month)
	slog.Debug(config.MsgMonthChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyYear, app.Year,
		config.LogKeyMonth, app.Month,
	)
	app.Refresh()
}

// PrevMonth shows the month before the displayed one.
func (app *CalendarApp) PrevMonth() {
	app.ShowMonth(app.Year, app.Month-1)
}

// NextMonth shows the month after the displayed one.
func (app *CalendarApp) NextMonth() {
	app.ShowMonth(app.Year, app.Month+1)
}

// GoToday resets both the displayed month and the selection to today.
func (app *CalendarApp) GoToday() {
	now := app.Clock.Now()
	app.Selected = engine.StartOfDay(now)
	app.ShowMonth(now.Year(), engine.ZeroBasedMonth(now))
}

// SelectDate selects a day without changing the displayed month.
func (app *CalendarApp) SelectDate(day time.Time) {
	app.Selected = engine.StartOfDay(day)
	slog.Debug(config.MsgDaySelected,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDate, app.Selected.Format(config.LayoutDayKey),
	)
	app.Refresh()
}

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

// Refresh redraws every widget from the store and the current state.
func (app *CalendarApp) Refresh() {
	v := app.view
	if v == nil {
		return
	}
	loc := app.Locale()

	v.monthLabel.SetText(app.monthTitle(loc))
	v.todayBtn.SetText(app.GetMsg(config.TKeyBtnToday))
	v.addBtn.SetText(app.GetMsg(config.TKeyBtnAddEvent))
	v.settingsBtn.SetText(app.GetMsg(config.TKeyBtnSettings))
	v.feedLabel.SetText(app.GetMsgData(config.TKeyLblFeed, map[string]any{"URL": app.feedURL()}))

	for i, name := range loc.ShortWeekdays {
		v.weekdays[i].SetText(name)
	}

	grid := app.Store.Grid(app.Year, app.Month, app.Clock.Now())
	for i, d := range grid {
		app.renderCell(v.cells[i], d)
	}

	app.renderAgenda(loc)
}

func (app *CalendarApp) renderCell(c *dayCell, d engine.Day) {
	c.date = d.Date

	c.number.SetText(strconv.Itoa(d.Date.Day()))
	c.number.TextStyle = fyne.TextStyle{Bold: d.IsToday}
	switch {
	case d.IsToday:
		c.number.Importance = widget.HighImportance
	case !d.IsCurrentMonth:
		c.number.Importance = widget.LowImportance
	default:
		c.number.Importance = widget.MediumImportance
	}
	c.number.Refresh()

	switch {
	case engine.IsSameCalendarDay(d.Date, app.Selected):
		c.bg.FillColor = theme.Color(theme.ColorNameSelection)
	case !d.IsCurrentMonth:
		c.bg.FillColor = theme.Color(theme.ColorNameInputBackground)
	default:
		c.bg.FillColor = color.Transparent
	}
	c.bg.Refresh()

	visible, more := engine.VisibleEvents(d)
	objs := make([]fyne.CanvasObject, 0, len(visible)+1)
	for _, e := range visible {
		objs = append(objs, eventChip(e))
	}
	if more > 0 {
		lbl := widget.NewLabel(app.moreLabel(more))
		lbl.SizeName = theme.SizeNameCaptionText
		objs = append(objs, lbl)
	}
	c.events.Objects = objs
	c.events.Refresh()
}

func eventChip(e engine.Event) fyne.CanvasObject {
	swatch := canvas.NewRectangle(swatches[e.Color.OrDefault()])
	swatch.SetMinSize(fyne.NewSize(config.SwatchSize, config.SwatchSize))

	title := widget.NewLabel(e.Title)
	title.Truncation = fyne.TextTruncateEllipsis
	title.SizeName = theme.SizeNameCaptionText

	return container.NewBorder(nil, nil, container.NewCenter(swatch), nil, title)
}

// renderAgenda lists the selected day's events in start order.
func (app *CalendarApp) renderAgenda(loc engine.Locale) {
	v := app.view
	v.dayTitle.SetText(engine.FormatFullDate(app.Selected, loc))

	events := app.Store.EventsOn(app.Selected)
	if len(events) == 0 {
		empty := widget.NewLabelWithStyle(app.GetMsg(config.TKeyLblNoEvents), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		empty.Wrapping = fyne.TextWrapWord
		create := widget.NewButton(app.GetMsg(config.TKeyLblCreateOne), app.ShowEventDialog)
		create.Importance = widget.LowImportance
		v.agenda.Objects = []fyne.CanvasObject{empty, create}
		v.agenda.Refresh()
		return
	}

	objs := make([]fyne.CanvasObject, 0, len(events))
	for _, e := range events {
		objs = append(objs, agendaCard(e, loc))
	}
	v.agenda.Objects = objs
	v.agenda.Refresh()
}

func agendaCard(e engine.Event, loc engine.Locale) *widget.Card {
	timeRange := fmt.Sprintf(config.FormatTimeRange,
		engine.FormatTimeOfDay(e.Start, loc),
		engine.FormatTimeOfDay(e.End, loc),
	)

	details := container.NewVBox()
	if e.Location != "" {
		details.Add(widget.NewLabelWithStyle(e.Location, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}))
	}
	if e.Description != "" {
		desc := widget.NewLabel(e.Description)
		desc.Wrapping = fyne.TextWrapWord
		details.Add(desc)
	}

	swatch := canvas.NewRectangle(swatches[e.Color.OrDefault()])
	swatch.SetMinSize(fyne.NewSize(config.SwatchSize, config.SwatchSize))

	return widget.NewCard(e.Title, timeRange, container.NewBorder(nil, nil, swatch, nil, details))
}
