package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/assist"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// eventForm is the content of the "Add New Event" dialog.
type eventForm struct {
	app    *CalendarApp
	parser *assist.Parser

	// ctx ends when the dialog closes, abandoning an outstanding parse.
	ctx    context.Context
	cancel context.CancelFunc
	busy   bool

	magic     *widget.Entry
	magicBtn  *widget.Button
	magicHelp *widget.Label

	title       *widget.Entry
	start       *FilteredEntry
	end         *FilteredEntry
	location    *widget.Entry
	description *widget.Entry
	color       *widget.Select

	createBtn *widget.Button
	cancelBtn *widget.Button
	dialog    *dialog.CustomDialog

	// onMagicDone observes the end of a parse, on the main goroutine.
	onMagicDone func(error)
}

// ShowEventDialog opens the creation dialog for the selected day.
func (app *CalendarApp) ShowEventDialog() {
	app.openEventDialog()
}

func (app *CalendarApp) openEventDialog() *eventForm {
	if app.Window == nil {
		return nil
	}
	slog.Info(config.MsgDialogOpen,
		config.LogKeyComponent, config.CompUIEvent,
		config.LogKeyDate, app.Selected.Format(config.LayoutDayKey),
	)

	f := app.newEventForm(app.Selected)

	f.dialog = dialog.NewCustomWithoutButtons(app.GetMsg(config.TKeyTitleNewEvent), f.content(), app.Window)
	f.dialog.SetButtons([]fyne.CanvasObject{f.cancelBtn, f.createBtn})
	f.dialog.SetOnClosed(f.close)
	f.dialog.Resize(fyne.NewSize(config.EventDialogWidth, f.dialog.MinSize().Height))
	f.dialog.Show()
	return f
}

// newEventForm builds the widgets, pre-filled with day 09:00 to 10:00.
func (app *CalendarApp) newEventForm(day time.Time) *eventForm {
	ctx, cancel := context.WithCancel(app.Ctx)
	f := &eventForm{
		app:    app,
		ctx:    ctx,
		cancel: cancel,
		parser: app.NewParser(ctx),
	}
	zone := app.zone()

	f.magic = widget.NewEntry()
	f.magic.SetPlaceHolder(app.GetMsg(config.TKeyLblMagicHint))
	f.magic.OnChanged = func(string) { f.updateMagicButton() }
	f.magic.OnSubmitted = func(string) { f.runMagic() }
	f.magicBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnMagic), theme.ComputerIcon(), f.runMagic)

	help := config.TKeyLblMagicHelp
	if !f.parser.Available() {
		help = config.TKeyMsgAINoKey
	}
	f.magicHelp = widget.NewLabel(app.GetMsg(help))
	f.magicHelp.Wrapping = fyne.TextWrapWord

	f.title = widget.NewEntry()
	f.start = NewDateTimeEntry()
	f.start.SetText(engine.FormatForLocalInput(engine.AtClock(day, config.DefaultFormStartHour, 0), zone))
	f.start.Validator = app.validateLocalInput
	f.end = NewDateTimeEntry()
	f.end.SetText(engine.FormatForLocalInput(engine.AtClock(day, config.DefaultFormEndHour, 0), zone))
	f.end.Validator = app.validateLocalInput
	f.location = widget.NewEntry()
	f.description = widget.NewMultiLineEntry()
	f.description.Wrapping = fyne.TextWrapWord

	f.color = widget.NewSelect(app.colorLabels(), nil)
	f.color.SetSelectedIndex(0)

	f.createBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCreate), theme.ConfirmIcon(), f.submit)
	f.createBtn.Importance = widget.HighImportance
	f.cancelBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), f.hide)

	f.updateMagicButton()
	return f
}

func (f *eventForm) content() fyne.CanvasObject {
	app := f.app

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblTitle), f.title),
		widget.NewFormItem(app.GetMsg(config.TKeyLblStart), f.start),
		widget.NewFormItem(app.GetMsg(config.TKeyLblEnd), f.end),
		widget.NewFormItem(app.GetMsg(config.TKeyLblLocation), f.location),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDescription), f.description),
		widget.NewFormItem(app.GetMsg(config.TKeyLblColor), f.color),
	)

	magic := widget.NewCard("", "", container.NewVBox(
		f.magicHelp,
		container.NewBorder(nil, nil, nil, f.magicBtn, f.magic),
	))

	manual := widget.NewLabelWithStyle(app.GetMsg(config.TKeyLblOrManual), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	return container.NewVBox(magic, manual, form)
}

// updateMagicButton disables the trigger while the text is blank or a request is running.
func (f *eventForm) updateMagicButton() {
	if f.busy {
		f.magicBtn.SetText(f.app.GetMsg(config.TKeyBtnMagicBusy))
		f.magicBtn.Disable()
		return
	}
	f.magicBtn.SetText(f.app.GetMsg(config.TKeyBtnMagic))
	if strings.TrimSpace(f.magic.Text) == "" {
		f.magicBtn.Disable()
	} else {
		f.magicBtn.Enable()
	}
}

// runMagic sends the description to the parser on a background goroutine.
// The form is only touched again from fyne.Do, and a failure leaves the
// fields as they were.
func (f *eventForm) runMagic() {
	text := strings.TrimSpace(f.magic.Text)
	if f.busy || text == "" {
		return
	}
	f.busy = true
	f.updateMagicButton()

	reference := f.app.Clock.Now()
	go func() {
		draft, err := f.parser.Parse(f.ctx, text, reference)
		fyne.Do(func() {
			f.busy = false
			switch {
			case err == nil:
				f.applyDraft(draft)
				f.magicHelp.SetText(f.app.GetMsg(config.TKeyLblMagicHelp))
			case errors.Is(err, assist.ErrUnavailable):
				f.magicHelp.SetText(f.app.GetMsg(config.TKeyMsgAINoKey))
			case errors.Is(err, assist.ErrFailed):
				f.magicHelp.SetText(f.app.GetMsg(config.TKeyMsgAIFailed))
			}
			f.updateMagicButton()
			if f.onMagicDone != nil {
				f.onMagicDone(err)
			}
		})
	}()
}

// applyDraft fills the form. The title is always replaced; the other fields
// only when the draft carries a value.
func (f *eventForm) applyDraft(d engine.Draft) {
	zone := f.app.zone()

	f.title.SetText(d.Title)
	if !d.Start.IsZero() {
		f.start.SetText(engine.FormatForLocalInput(d.Start, zone))
	}
	if !d.End.IsZero() {
		f.end.SetText(engine.FormatForLocalInput(d.End, zone))
	}
	if d.Description != "" {
		f.description.SetText(d.Description)
	}
	if d.Location != "" {
		f.location.SetText(d.Location)
	}

	slog.Info(config.MsgAIApplied,
		config.LogKeyComponent, config.CompUIEvent,
		config.LogKeyStart, d.Start,
		config.LogKeyEnd, d.End,
	)
}

// input reads the form. Blank dates stay zero so validation names them.
func (f *eventForm) input() (engine.EventInput, error) {
	zone := f.app.zone()
	in := engine.EventInput{
		Title:       f.title.Text,
		Description: f.description.Text,
		Location:    f.location.Text,
		Color:       f.selectedColor(),
	}

	var err error
	if strings.TrimSpace(f.start.Text) != "" {
		if in.Start, err = engine.ParseLocalInput(f.start.Text, zone); err != nil {
			return in, err
		}
	}
	if strings.TrimSpace(f.end.Text) != "" {
		if in.End, err = engine.ParseLocalInput(f.end.Text, zone); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (f *eventForm) selectedColor() engine.Color {
	idx := f.color.SelectedIndex()
	if idx < 0 || idx >= len(engine.Palette) {
		return engine.DefaultColor
	}
	return engine.Palette[idx]
}

// submit stores the event. On failure the dialog stays open with an error.
func (f *eventForm) submit() {
	if _, err := f.app.addEvent(f); err != nil {
		dialog.ShowError(errors.New(f.app.errorMessage(err)), f.app.Window)
		return
	}
	f.hide()
}

func (f *eventForm) hide() {
	if f.dialog != nil {
		f.dialog.Hide()
		return
	}
	f.close()
}

// close abandons an outstanding parse. It may run more than once.
func (f *eventForm) close() {
	f.cancel()
	slog.Debug(config.MsgDialogClosed, config.LogKeyComponent, config.CompUIEvent)
}

// addEvent validates the form through the store, then republishes and redraws.
func (app *CalendarApp) addEvent(f *eventForm) (engine.Event, error) {
	in, err := f.input()
	if err != nil {
		return engine.Event{}, err
	}
	ev, err := app.Store.Add(in)
	if err != nil {
		slog.Debug(config.MsgEventRejected,
			config.LogKeyComponent, config.CompUIEvent,
			config.LogKeyError, err,
		)
		return engine.Event{}, err
	}

	slog.Info(config.MsgEventAdded,
		config.LogKeyComponent, config.CompUIEvent,
		config.LogKeyEventID, ev.ID,
		config.LogKeyTitle, ev.Title,
	)

	app.publish()
	app.Refresh()
	return ev, nil
}

// errorMessage translates validation failures for the error dialog.
func (app *CalendarApp) errorMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrTitleRequired):
		return app.GetMsg(config.TKeyErrTitleReq)
	case errors.Is(err, engine.ErrStartRequired):
		return app.GetMsg(config.TKeyErrStartReq)
	case errors.Is(err, engine.ErrEndRequired):
		return app.GetMsg(config.TKeyErrEndReq)
	case errors.Is(err, engine.ErrEndBeforeStart):
		return app.GetMsg(config.TKeyErrEndBefore)
	case errors.Is(err, engine.ErrLocalInput):
		return app.GetMsg(config.TKeyErrDateTime)
	default:
		return err.Error()
	}
}

// validateLocalInput flags malformed date-time text as it is typed.
func (app *CalendarApp) validateLocalInput(s string) error {
	if _, err := engine.ParseLocalInput(s, app.zone()); err != nil {
		return errors.New(app.GetMsg(config.TKeyErrDateTime))
	}
	return nil
}
