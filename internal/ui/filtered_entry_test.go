package ui_test

import (
	"testing"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-calendar/internal/ui"
)

func TestNumericalEntry_TypedRune(t *testing.T) {
	entry := ui.NewNumericalEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Letter_a", 'a', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Colon", ':', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")
			test.Type(entry, string(tt.input))

			if tt.accepted {
				assert.Equal(t, string(tt.input), entry.Text)
			} else {
				assert.Empty(t, entry.Text)
			}
		})
	}
}

func TestDateTimeEntry_TypedRune(t *testing.T) {
	entry := ui.NewDateTimeEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	test.Type(entry, "2024-03-15T09:30")
	assert.Equal(t, "2024-03-15T09:30", entry.Text)

	entry.SetText("")
	test.Type(entry, "15/03/2024 9am")
	assert.Equal(t, "150320249", entry.Text, "separators other than - : T are dropped")

	entry.SetText("")
	test.Type(entry, "t")
	assert.Empty(t, entry.Text, "the date-time separator is upper case")
}

func TestFilteredEntry_Keyboard(t *testing.T) {
	assert.Equal(t, mobile.NumberKeyboard, ui.NewNumericalEntry().Keyboard())
	assert.Equal(t, mobile.DefaultKeyboard, ui.NewDateTimeEntry().Keyboard())
}

// TestFilteredEntry_DirectSetText documents that only keystrokes are filtered.
func TestFilteredEntry_DirectSetText(t *testing.T) {
	entry := ui.NewDateTimeEntry()
	entry.SetText("tomorrow")
	assert.Equal(t, "tomorrow", entry.Text, "SetText bypasses the filter; validation happens separately")
}
