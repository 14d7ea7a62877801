package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *CalendarApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator from the language preference,
// falling back to the system language when none is saved.
func (app *CalendarApp) UpdateLocalizer() {
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, app.Language())
}

// Language returns the language currently shown.
func (app *CalendarApp) Language() string {
	lang := app.Preferences.String(config.PrefLanguage)
	if lang == "" {
		lang = MatchLanguage(os.Getenv(config.EnvLang), app.SupportedLanguages)
	}
	return lang
}

// MatchLanguage picks the supported language closest to a POSIX locale
// such as "fr_CA.UTF-8". It returns config.DefaultLanguage when nothing matches.
func MatchLanguage(posix string, supported []string) string {
	if len(supported) == 0 {
		return config.DefaultLanguage
	}

	code, _, _ := strings.Cut(posix, ".")
	code = strings.ReplaceAll(code, "_", "-")
	tag, err := language.Parse(code)
	if err != nil {
		return config.DefaultLanguage
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}

	_, idx, confidence := language.NewMatcher(tags).Match(tag)
	if confidence == language.No {
		return config.DefaultLanguage
	}
	return supported[idx]
}

// GetMsg is a helper to translate a key safely.
func (app *CalendarApp) GetMsg(key string) string {
	return app.GetMsgData(key, nil)
}

// GetMsgData translates a key whose message is a template.
// The key itself is returned when no translation exists.
func (app *CalendarApp) GetMsgData(key string, data map[string]any) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// msgOr translates key, returning fallback when the bundle lacks it.
func (app *CalendarApp) msgOr(key, fallback string) string {
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return fallback
}

// Locale assembles the engine vocabulary for the current language and clock preference.
func (app *CalendarApp) Locale() engine.Locale {
	l := engine.DefaultLocale()

	l.TimeLayout = app.msgOr(config.TKeyTimeLayout, l.TimeLayout)
	if app.Preferences.Bool(config.PrefClock24h) {
		l.TimeLayout = config.LayoutTime24h
	}
	l.FullDateFormat = app.msgOr(config.TKeyFullDateFormat, l.FullDateFormat)

	for i := range l.Weekdays {
		n := strconv.Itoa(i)
		l.Weekdays[i] = app.msgOr(config.TKeyWeekdayPrefix+n, l.Weekdays[i])
		l.ShortWeekdays[i] = app.msgOr(config.TKeyWeekdayShort+n, l.ShortWeekdays[i])
	}
	for i := range l.Months {
		l.Months[i] = app.msgOr(config.TKeyMonthPrefix+strconv.Itoa(i), l.Months[i])
	}
	return l
}

// monthTitle renders the header label, e.g. "March 2024".
func (app *CalendarApp) monthTitle(loc engine.Locale) string {
	name := loc.MonthName(app.Month)
	msg := app.GetMsgData(config.TKeyFormatMonth, map[string]any{
		"Month": name,
		"Year":  app.Year,
	})
	if msg == config.TKeyFormatMonth {
		return fmt.Sprintf(config.FormatMonthYear, name, app.Year)
	}
	return msg
}

// moreLabel renders the overflow marker of a day cell.
func (app *CalendarApp) moreLabel(count int) string {
	msg := app.GetMsgData(config.TKeyLblMoreEvents, map[string]any{"Count": count})
	if msg == config.TKeyLblMoreEvents {
		return fmt.Sprintf(config.FallbackMoreEvents, count)
	}
	return msg
}

// colorLabels lists the translated names of engine.Palette in order.
func (app *CalendarApp) colorLabels() []string {
	labels := make([]string, 0, len(engine.Palette))
	for _, c := range engine.Palette {
		labels = append(labels, app.msgOr(config.TKeyColorPrefix+string(c), string(c)))
	}
	return labels
}
