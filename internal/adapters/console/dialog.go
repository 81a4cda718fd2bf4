// Package console implements the user-facing collaborators for a terminal:
// a blocking message dialog, a loading spinner and process control.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/anno-app/annoboot/internal/ports"
)

// Dialog implements ports.Notifier by printing a framed message and waiting
// for the user to press Enter.
type Dialog struct {
	out         io.Writer
	in          io.Reader
	interactive bool
	title       string

	titleColor *color.Color
	bodyColor  *color.Color
	hintColor  *color.Color
}

// NewDialog creates a dialog writing to out and reading acknowledgment from
// in. A non-interactive dialog prints the message and returns at once.
func NewDialog(out io.Writer, in io.Reader, interactive bool) *Dialog {
	return &Dialog{
		out:         out,
		in:          in,
		interactive: interactive && in != nil,
		title:       "Anno",
		titleColor:  color.New(color.FgBlue, color.Bold),
		bodyColor:   color.New(color.FgYellow),
		hintColor:   color.New(color.Faint),
	}
}

// ShowMessage prints msg and blocks until the user presses Enter, the input
// ends or ctx is done.
func (d *Dialog) ShowMessage(ctx context.Context, msg string) error {
	d.titleColor.Fprintln(d.out, "\n"+d.title)
	d.bodyColor.Fprintln(d.out, msg)

	if !d.interactive {
		return nil
	}
	d.hintColor.Fprint(d.out, "Press Enter to continue...")

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(d.in).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		fmt.Fprintln(d.out)
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.Notifier = (*Dialog)(nil)
