// Package notify implements the local notification surface.
package notify

import (
	"fmt"
	"io"

	"github.com/gen2brain/beeep"
)

// Desktop sends notifications to the OS notification surface.
type Desktop struct{}

// Notify implements monitor.Notifier.
func (Desktop) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Writer prints notifications as plain lines, for terminals without a
// notification surface.
type Writer struct {
	W io.Writer
}

// Notify implements monitor.Notifier.
func (n Writer) Notify(title, body string) error {
	_, err := fmt.Fprintf(n.W, "%s: %s\n", title, body)
	return err
}
