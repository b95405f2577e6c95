// Package numinput parses the step field of the counter form.
//
// The field keeps the last valid number. Text that does not parse sets an
// error message and leaves the number alone; empty text is ignored.
package numinput

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/ducks/internal/ducks/counter"
	"github.com/roach88/ducks/internal/i18n"
)

var (
	// ErrEmpty is returned by Parse for empty text.
	ErrEmpty = errors.New("empty input")

	// ErrNotInteger is returned by Parse for text that is not a base-10 int64.
	ErrNotInteger = errors.New("not an integer")
)

// Parse reads a base-10 integer with an optional sign.
// Surrounding whitespace is ignored.
func Parse(text string) (int64, error) {
	if text == "" {
		return 0, ErrEmpty
	}
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, ErrNotInteger
	}
	return n, nil
}

// Field is the pending step for increment and decrement.
type Field struct {
	// Num is the last successfully parsed value.
	Num int64
	// Err is the message shown to the user, empty when the last input parsed.
	Err string

	printer *i18n.Printer
}

// New returns a field holding counter.DefaultNum. Error messages are
// formatted with p; a nil p uses the base locale.
func New(p *i18n.Printer) *Field {
	if p == nil {
		p = i18n.MustLoad().Printer(i18n.BaseLocale)
	}
	return &Field{Num: counter.DefaultNum, printer: p}
}

// Set applies the current text of the input.
// It reports whether Num or Err changed.
func (f *Field) Set(text string) bool {
	n, err := Parse(text)
	switch {
	case errors.Is(err, ErrEmpty):
		return false
	case err != nil:
		msg := f.printer.Sprintf(i18n.KeyNotInteger)
		changed := f.Err != msg
		f.Err = msg
		return changed
	default:
		changed := f.Num != n || f.Err != ""
		f.Num = n
		f.Err = ""
		return changed
	}
}

// Valid reports whether the last non-empty input parsed.
func (f *Field) Valid() bool {
	return f.Err == ""
}
