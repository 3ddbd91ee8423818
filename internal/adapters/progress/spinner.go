package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// SpinnerSink shows a spinner on stderr while a stage is running and prints a
// line for each finished stage
type SpinnerSink struct {
	spinner    *spinner.Spinner
	out        io.Writer
	stage      string
	message    string
	stageStart time.Time
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     os.Stderr,
	}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.completeStage()
		r.stage = event.Stage
		r.stageStart = time.Now()
	}
	r.message = event.Message

	if event.Spinner {
		r.spinner.Suffix = " " + r.suffix(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop completes the running stage and stops the spinner
func (r *SpinnerSink) Stop() {
	r.completeStage()
	r.stage = ""
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerSink) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

// completeStage prints the stage that just finished with its duration
func (r *SpinnerSink) completeStage() {
	if r.stage == "" || r.message == "" {
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	duration := time.Since(r.stageStart).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.message,
		color.New(color.Faint).Sprintf("(%s)", duration),
	)
}

func (r *SpinnerSink) suffix(event usecase.ProgressEvent) string {
	if event.Total > 0 {
		return fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	return event.Message
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
