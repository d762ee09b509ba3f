// Package clipboard copies card text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// Write copies text to the system clipboard. Surrounding whitespace is
// trimmed; empty text is not copied.
func Write(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Available reports whether a clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}
