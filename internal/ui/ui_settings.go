package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/assist"
	"github.com/tartampluch/go-calendar/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect  *widget.Select
	clockCheck  *widget.Check
	entryPort   *FilteredEntry
	modelEntry  *widget.Entry
	apiKeyEntry *widget.Entry

	// storedKey is the keyring content when the window opened.
	storedKey string
}

// ShowSettingsWindow displays the configuration window, or focuses it when already open.
func (app *CalendarApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	saveAction := func() {
		// Only the port blocks saving when invalid.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		app.buildGeneralCard(sw),
		app.buildAssistantCard(sw),
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// newSettingsWidgets creates the inputs filled from preferences and the keyring.
func (app *CalendarApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Language())

	sw.clockCheck = widget.NewCheck(app.GetMsg(config.TKeyLblClock24h), nil)
	sw.clockCheck.SetChecked(app.Preferences.Bool(config.PrefClock24h))

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.validatePort

	sw.modelEntry = widget.NewEntry()
	sw.modelEntry.SetPlaceHolder(config.DefaultAIModel)
	sw.modelEntry.SetText(app.Preferences.String(config.PrefAIModel))

	sw.apiKeyEntry = widget.NewPasswordEntry()
	if key, err := assist.StoredAPIKey(); err == nil {
		sw.storedKey = key
		sw.apiKeyEntry.SetText(key)
	} else {
		slog.Debug(config.MsgKeyMissing,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err,
		)
	}
	return sw
}

func (app *CalendarApp) buildGeneralCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemClock := widget.NewFormItem("", sw.clockCheck)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemClock, itemPort))
}

func (app *CalendarApp) buildAssistantCard(sw *settingsWidgets) *widget.Card {
	itemModel := widget.NewFormItem(app.GetMsg(config.TKeyLblModel), sw.modelEntry)

	itemKey := widget.NewFormItem(app.GetMsg(config.TKeyLblAPIKey), sw.apiKeyEntry)
	itemKey.HintText = app.GetMsg(config.TKeyHelpAPIKey)

	return widget.NewCard(app.GetMsg(config.TKeyLblAssistant), "", widget.NewForm(itemModel, itemKey))
}

// validatePort accepts 1-65535.
func (app *CalendarApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// saveSettings persists the widgets and redraws the calendar in the new language.
// A port change applies on the next start.
func (app *CalendarApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSave, config.LogKeyComponent, config.CompUISet)

	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}
	app.Preferences.SetBool(config.PrefClock24h, sw.clockCheck.Checked)

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	app.Preferences.SetString(config.PrefAIModel, strings.TrimSpace(sw.modelEntry.Text))

	// The keyring is only written when the key actually changed.
	if key := strings.TrimSpace(sw.apiKeyEntry.Text); key != sw.storedKey {
		if err := assist.SaveAPIKey(key); err != nil {
			slog.Error(config.ErrKeyringWrite,
				config.LogKeyComponent, config.CompUISet,
				config.LogKeyError, err,
			)
		} else {
			sw.storedKey = key
		}
	}

	app.UpdateLocalizer()
	app.Refresh()
}
