package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Calendar/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Calendar"
	AppID             = "com.github.tartampluch.go-calendar"
	KeyringService    = "com.github.tartampluch.go-calendar"
	KeyringAccountAI  = "gemini_api_key"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Environment
// -----------------------------------------------------------------------------

const (
	// EnvAIKey is checked first, EnvAIKeyLegacy second, when the keyring holds no key.
	EnvAIKey       = "GEMINI_API_KEY"
	EnvAIKeyLegacy = "API_KEY"
	EnvLang        = "LANG"
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdUse        = "go-calendar"
	CmdShort      = "Go Calendar - a month calendar with natural-language event entry"
	CmdLong       = "go-calendar opens a desktop month calendar. Events live in memory for the session and are published as an iCalendar feed on localhost."
	CmdGridUse    = "grid"
	CmdGridShort  = "Print a month grid in the terminal"
	CmdParseUse   = "parse <text>"
	CmdParseShort = "Turn a sentence into an event draft using Gemini"
	CmdVerUse     = "version"
	CmdVerShort   = "Show application version and exit"

	FlagDebug     = "debug"
	FlagSeed      = "seed"
	FlagYear      = "year"
	FlagMonth     = "month"
	FlagModel     = "model"
	FlagDescDebug = "Enable debug logging to stdout"
	FlagDescSeed  = "YAML file or http(s) URL with the events a session starts with"
	FlagDescYear  = "Year to display (defaults to the current year)"
	FlagDescMonth = "Month to display, 1-12 (defaults to the current month)"
	FlagDescModel = "Gemini model used for parsing"

	MsgVersionOutput = "%s version %s (%s) built %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 1100
	MainWindowHeight    = 720
	SettingsWindowWidth = 520
	EventDialogWidth    = 520
	DayCellMinHeight    = 92

	// Preference Keys
	PrefLanguage   = "language"
	PrefServerPort = "server_port"
	PrefClock24h   = "clock_24h"
	PrefAIModel    = "ai_model"
	PrefLastRun    = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Calendar Layout & Event Defaults
// -----------------------------------------------------------------------------

const (
	GridColumns      = 7
	GridRows         = 6
	GridCells        = GridColumns * GridRows
	MaxVisibleEvents = 3

	CronMidnight = "@midnight"

	DefaultEventDuration = 1 * time.Hour
	DefaultFormStartHour = 9
	DefaultFormEndHour   = 10
	SeedDayOffsetLunch   = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyBtnToday       = "btn_today"
	TKeyBtnAddEvent    = "btn_add_event"
	TKeyBtnSettings    = "btn_settings"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyBtnCreate      = "btn_create_event"
	TKeyBtnMagic       = "btn_magic_create"
	TKeyBtnMagicBusy   = "btn_magic_busy"
	TKeyLblMoreEvents  = "lbl_more_events" // Requires Count
	TKeyLblNoEvents    = "lbl_no_events"
	TKeyLblCreateOne   = "lbl_create_one"
	TKeyLblMagicHint   = "lbl_magic_hint"
	TKeyLblMagicHelp   = "lbl_magic_help"
	TKeyLblOrManual    = "lbl_or_manual"
	TKeyLblTitle       = "lbl_title"
	TKeyLblStart       = "lbl_start"
	TKeyLblEnd         = "lbl_end"
	TKeyLblLocation    = "lbl_location"
	TKeyLblDescription = "lbl_description"
	TKeyLblColor       = "lbl_color"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblClock24h    = "lbl_clock_24h"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblAssistant   = "lbl_assistant"
	TKeyLblAPIKey      = "lbl_api_key"
	TKeyHelpAPIKey     = "help_api_key"
	TKeyLblModel       = "lbl_model"
	TKeyLblFooter      = "lbl_footer"
	TKeyLblFeed        = "lbl_feed" // Requires URL
	TKeyTitleNewEvent  = "title_new_event"
	TKeyMsgAIFailed    = "msg_ai_failed"
	TKeyMsgAINoKey     = "msg_ai_no_key"
	TKeyFormatMonth    = "format_month_year" // Requires Month, Year

	// Calendar vocabulary (engine.Locale)
	TKeyTimeLayout     = "layout_time"
	TKeyFullDateFormat = "format_full_date"
	TKeyWeekdayPrefix  = "weekday_"       // weekday_0 (Sunday) .. weekday_6
	TKeyWeekdayShort   = "weekday_short_" // weekday_short_0 .. weekday_short_6
	TKeyMonthPrefix    = "month_"         // month_0 (January) .. month_11

	// Colors
	TKeyColorPrefix = "color_" // color_blue, color_indigo, ...

	// Validation Errors (UI)
	TKeyErrTitleReq  = "err_title_required"
	TKeyErrStartReq  = "err_start_required"
	TKeyErrEndReq    = "err_end_required"
	TKeyErrEndBefore = "err_end_before_start"
	TKeyErrDateTime  = "err_datetime_format"
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18080"
	DefaultLanguage = "en"
	DefaultAIModel  = "gemini-2.5-flash"
)

// -----------------------------------------------------------------------------
// Date & Time Layouts
// -----------------------------------------------------------------------------

const (
	// LayoutLocalInput is the wall-clock text used by the event form.
	LayoutLocalInput = "2006-01-02T15:04"
	LayoutISOSeconds = "2006-01-02T15:04:05"
	LayoutRFC3339    = time.RFC3339
	LayoutTime12h    = "3:04 PM"
	LayoutTime24h    = "15:04"
	LayoutDayKey     = "2006-01-02"
	LayoutClockHHMM  = "15:04"

	// FormatFullDateEN receives weekday, month and day as positional arguments.
	FormatFullDateEN = "%[1]s, %[2]s %[3]d"
	FormatMonthYear  = "%s %d"
)

// -----------------------------------------------------------------------------
// Natural-Language Assistant (Gemini)
// -----------------------------------------------------------------------------

const (
	AIModelPrefix    = "models/"
	AIRequestTimeout = 30 * time.Second
	MimeJSON         = "application/json"

	// AIPromptTemplate receives the user text, the reference timestamp (RFC 3339)
	// and a human rendering of the same instant.
	AIPromptTemplate = `Extract calendar event details from the following text: "%s".
The current reference date and time is %s (%s).
Resolve relative expressions such as "tomorrow", "next Friday" or "in two hours" against this reference.
If no duration is given, use a default duration of 1 hour.
Return start and end as ISO 8601 timestamps including the UTC offset of the reference.
Leave description and location empty when the text does not mention them.`

	// AIResponseSchema is the JSON schema the model must answer with.
	AIResponseSchema = `{
  "type": "OBJECT",
  "properties": {
    "title":       {"type": "STRING", "description": "Short title of the event"},
    "start":       {"type": "STRING", "description": "ISO 8601 start date-time"},
    "end":         {"type": "STRING", "description": "ISO 8601 end date-time"},
    "description": {"type": "STRING", "description": "Optional details"},
    "location":    {"type": "STRING", "description": "Optional place"}
  },
  "required": ["title", "start", "end"]
}`
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Calendar//Engine//EN"
	ICalCalName = "Go Calendar"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropDescription = "DESCRIPTION"
	PropLocation    = "LOCATION"
	PropColor       = "COLOR"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 15 * time.Minute

	// CSSColorAmber is the CSS3 keyword exported for the amber tag.
	CSSColorAmber = "orange"
)

// -----------------------------------------------------------------------------
// Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	MinPort = 1
	MaxPort = 65535

	// Grids of these years stay inside the 0-9999 range JSON timestamps support.
	MinGridYear = 1
	MaxGridYear = 9998

	MaxSeedSize = 1 * 1024 * 1024 // 1MB

	ExtYAML = ".yaml"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	AddrSeparator      = ":"

	RouteCalendar = "/calendar.ics"
	RouteGrid     = "/api/grid"
	RouteHealth   = "/health"
	QueryYear     = "year"
	QueryMonth    = "month"

	// FormatFeedURL expects host and port.
	FormatFeedURL = "http://%s:%s" + RouteCalendar
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSONUTF8        = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrFetchStatus    = "server returned unexpected status"
	ErrFetchNetwork   = "network error during fetch"
	ErrFetchRequest   = "failed to create request"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrJSONEncode     = "failed to encode JSON response"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrKeyringRead    = "failed to read API key from keyring"
	ErrKeyringWrite   = "failed to save API key to keyring"
	ErrCronSchedule   = "failed to schedule midnight refresh"

	// Event validation
	ErrTitleRequired  = "event title is required"
	ErrStartRequired  = "event start is required"
	ErrEndRequired    = "event end is required"
	ErrEndBeforeStart = "event end is before its start"
	ErrUnknownColor   = "unknown event color"
	ErrDuplicateID    = "event id already exists"
	ErrLocalInput     = "date-time must look like YYYY-MM-DDTHH:MM"

	// Natural-language parsing
	ErrAIEmptyInput  = "nothing to parse"
	ErrAIUnavailable = "natural-language parsing is unavailable: no API key configured"
	ErrAIFailed      = "natural-language parsing failed"
	ErrAIClient      = "failed to create Gemini client"
	ErrAIRequest     = "Gemini request failed"
	ErrAIEmptyReply  = "Gemini returned no text"
	ErrAIDecode      = "failed to decode Gemini reply"
	ErrAIMissingFld  = "Gemini reply lacks a required field"
	ErrAITimestamp   = "unrecognized timestamp"
	ErrAISchema      = "invalid response schema"

	// Seeds
	ErrSeedRead   = "failed to read seed events"
	ErrSeedDecode = "failed to decode seed events"
	ErrSeedEvent  = "invalid seed event"
	ErrSeedTime   = "seed event needs either start/end or day_offset with at/until"

	// HTTP API
	ErrQueryYear  = "year must be an integer between 1 and 9998"
	ErrQueryMonth = "month must be an integer between 0 and 11"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgHealthy      = "OK"
	HTTPMsgInternal     = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks, Titles & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackMoreEvents = "+ %d more"

	// StubVCalendar is the minimal valid iCalendar object used when no events exist.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgKeyMissing     = "API key lookup failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgEventAdded     = "Event added"
	MsgEventRejected  = "Event rejected by validation"
	MsgFeedPublished  = "Calendar feed published"
	MsgMonthChanged   = "Displayed month changed"
	MsgDaySelected    = "Day selected"
	MsgDialogOpen     = "Opening event dialog"
	MsgDialogClosed   = "Event dialog closed"
	MsgSettingsOpen   = "Opening settings window"
	MsgSettingsFocus  = "Settings window already open, requesting focus"
	MsgSettingsSave   = "Saving preferences"
	MsgMidnight       = "Midnight reached, refreshing today marker"
	MsgCronStart      = "Midnight refresh scheduled"
	MsgCronStop       = "Midnight refresh stopped"
	MsgAIRequest      = "Sending natural-language parse request"
	MsgAIParsed       = "Natural-language parse succeeded"
	MsgAIEndRepaired  = "Draft end missing or before start, using default duration"
	MsgAIApplied      = "Draft applied to event form"
	MsgAICancelled    = "Natural-language parse cancelled"
	MsgSeedLoaded     = "Seed events loaded"
	MsgSeedDefaults   = "Using built-in seed events"
	MsgSeedDownload   = "Downloading seed events"
	MsgSeedStatus     = "Seed server returned error status"
	MsgGridServed     = "Grid served"
	MsgSkippedSeedEvt = "Skipping invalid seed event"

	// Terminal output
	MsgCLIDraft       = "%-12s %s\n"
	CLILabelTitle     = "Title:"
	CLILabelStart     = "Start:"
	CLILabelEnd       = "End:"
	CLILabelLocation  = "Location:"
	CLILabelDesc      = "Description:"
	CLIEventMarker    = "•"
	CLIEmptyCell      = " "
	CLICellFormat     = "%3d"
	CLICellSeparator  = " "
	CLIWeekdayFormat  = "%4s"
	CLIHeaderFormat   = "%s %d\n"
	CLIAgendaHeader   = "\n%s\n"
	CLIAgendaLine     = "  %s-%s  %s\n"
	CLIAgendaLocation = "            @ %s\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyCount     = "count"
	LogKeyEventID   = "event_id"
	LogKeyTitle     = "title"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyYear      = "year"
	LogKeyMonth     = "month"
	LogKeyDate      = "date"
	LogKeyModel     = "model"
	LogKeyChars     = "input_chars"
	LogKeyDuration  = "duration_ms"
	LogKeySource    = "source"
	LogKeyIndex     = "index"
	LogKeySpec      = "spec"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompUIEvent = "ui_event"
	CompEngine  = "engine"
	CompStore   = "store"
	CompServer  = "server"
	CompAssist  = "assist"
	CompSeed    = "seed"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompCLI     = "cli"
	CompI18n    = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	SidebarOffset       = 0.72
	SwatchSize          = 8

	FormatTimeRange = "%s - %s"
)
