// Package clipboard copies text to the system clipboard. Failures never
// escape as panics; they come back as ErrClipboardUnavailable and are
// surfaced as an error notice.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/util"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

func (f WriterFunc) WriteText(text string) error { return f(text) }

// Copy writes text through w and pushes a notice naming what was copied.
// n may be nil.
func Copy(w Writer, text, what string, n notify.Notifier) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", util.ErrClipboardUnavailable, r)
			push(n, notify.SeverityError, "Failed to copy "+what)
		}
	}()

	if w == nil {
		push(n, notify.SeverityError, "Failed to copy "+what)
		return util.ErrClipboardUnavailable
	}
	if werr := w.WriteText(text); werr != nil {
		push(n, notify.SeverityError, "Failed to copy "+what)
		return fmt.Errorf("%w: %v", util.ErrClipboardUnavailable, werr)
	}
	push(n, notify.SeveritySuccess, capitalize(what)+" copied to clipboard")
	return nil
}

func push(n notify.Notifier, sev notify.Severity, msg string) {
	if n != nil {
		n.Push(sev, msg)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
