package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// TerminalSink writes status events to a terminal, animating loading states with a spinner
type TerminalSink struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
}

// NewTerminalSink creates a new terminal sink. A nil spinner is used when animate is false.
func NewTerminalSink(out io.Writer, animate bool) *TerminalSink {
	sink := &TerminalSink{out: out}
	if animate {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		s.HideCursor = false
		sink.spinner = s
	}
	return sink
}

// Log prints a terminal log entry
func (s *TerminalSink) Log(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused(func() {
		switch entry.Type {
		case domain.LogTypeError:
			color.New(color.FgRed).Fprintln(s.out, entry.Value)
		case domain.LogTypeWarn:
			color.New(color.FgYellow).Fprintln(s.out, entry.Value)
		default:
			fmt.Fprintln(s.out, entry.Value)
		}
	})
}

// StatusChanged starts the spinner on loading and settles it on succeed or failed
func (s *TerminalSink) StatusChanged(status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch status.Key {
	case domain.StatusLoading:
		if s.spinner == nil {
			color.New(color.FgCyan).Fprintf(s.out, "… %s\n", status.Title)
			return
		}
		s.spinner.Suffix = " " + status.Title
		if !s.spinner.Active() {
			s.spinner.Start()
		}
	case domain.StatusSucceed:
		s.stop()
		color.New(color.FgGreen).Fprintf(s.out, "✓ %s\n", status.Title)
	case domain.StatusFailed:
		s.stop()
		color.New(color.FgRed).Fprintf(s.out, "✗ %s\n", status.Title)
	default:
		s.paused(func() {
			fmt.Fprintln(s.out, status.Title)
		})
	}
}

// Notify prints a user notification
func (s *TerminalSink) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused(func() {
		color.New(color.FgYellow, color.Bold).Fprintf(s.out, "» %s\n", message)
	})
}

// paused runs fn with the spinner stopped, restarting it afterwards
func (s *TerminalSink) paused(fn func()) {
	wasActive := s.spinner != nil && s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	fn()

	if wasActive {
		s.spinner.Start()
	}
}

func (s *TerminalSink) stop() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

// Ensure TerminalSink implements StatusSink
var _ usecase.StatusSink = (*TerminalSink)(nil)
