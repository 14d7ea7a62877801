package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// FilteredEntry is an Entry that drops typed runes rejected by Accept.
// Pasted text and SetText bypass the filter; attach a Validator for those.
type FilteredEntry struct {
	widget.Entry
	Accept func(r rune) bool

	keyboard mobile.KeyboardType
}

// NewNumericalEntry creates an entry accepting digits only.
func NewNumericalEntry() *FilteredEntry {
	return newFilteredEntry(isDigit, mobile.NumberKeyboard)
}

// NewDateTimeEntry creates an entry for YYYY-MM-DDTHH:MM text.
func NewDateTimeEntry() *FilteredEntry {
	return newFilteredEntry(isDateTimeRune, mobile.DefaultKeyboard)
}

func newFilteredEntry(accept func(rune) bool, kb mobile.KeyboardType) *FilteredEntry {
	e := &FilteredEntry{Accept: accept, keyboard: kb}
	e.ExtendBaseWidget(e)
	return e
}

// TypedRune forwards accepted runes to the embedded Entry.
func (e *FilteredEntry) TypedRune(r rune) {
	if e.Accept == nil || e.Accept(r) {
		e.Entry.TypedRune(r)
	}
}

// Keyboard selects the on-screen keyboard on mobile devices.
func (e *FilteredEntry) Keyboard() mobile.KeyboardType {
	return e.keyboard
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDateTimeRune(r rune) bool {
	return isDigit(r) || r == '-' || r == ':' || r == 'T'
}
