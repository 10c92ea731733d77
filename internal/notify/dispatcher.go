package notify

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"

	"github.com/tovald/linkdrop/internal/logging"
)

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteText(text string) error
}

// Notifier delivers an OS-level notification
type Notifier interface {
	Notify(title, body string) error
}

// SystemClipboard writes through the real system clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// SystemNotifier delivers real desktop notifications
type SystemNotifier struct{}

func (SystemNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Dispatcher fires completion side effects. Every effect is
// fire-and-forget: failures are logged and never reach the upload's
// state.
type Dispatcher struct {
	clipboard Clipboard
	notifier  Notifier
}

// NewDispatcher creates a dispatcher with the given side-effect sinks.
// Nil sinks fall back to the real system implementations.
func NewDispatcher(cb Clipboard, n Notifier) *Dispatcher {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if n == nil {
		n = SystemNotifier{}
	}
	return &Dispatcher{clipboard: cb, notifier: n}
}

// UploadSucceeded runs the success side effects for a finished upload.
// With autoCopy set, the URL lands on the clipboard before the
// notification goes out, so the link is pasteable the moment the
// notification is seen.
func (d *Dispatcher) UploadSucceeded(displayName, url string, autoCopy bool) {
	body := fmt.Sprintf("%s uploaded. Open linkdrop to copy the link.", displayName)

	if autoCopy {
		if err := d.clipboard.WriteText(url); err != nil {
			logging.SideEffectError("clipboard", err)
		} else {
			logging.ClipboardCopy(url)
		}
		body = fmt.Sprintf("%s uploaded. Link copied to clipboard.", displayName)
	}

	d.Notify("Upload complete", body)
}

// Notify delivers a notification, reporting delivery as a bool rather
// than an error
func (d *Dispatcher) Notify(title, body string) bool {
	if err := d.notifier.Notify(title, body); err != nil {
		logging.SideEffectError("notification", err)
		return false
	}
	logging.NotifySent(title)
	return true
}
