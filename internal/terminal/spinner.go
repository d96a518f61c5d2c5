package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	clearLine  = "\033[2K"
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line while a request is outstanding
type Spinner struct {
	out      io.Writer
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner writing to out
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, interval: 80 * time.Millisecond}
}

// Start displays the spinner with msg, replacing any running one
func (s *Spinner) Start(msg string) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		i := 0
		for {
			fmt.Fprintf(s.out, "\r%s%s %s%s", colorCyan, spinnerChars[i], msg, colorReset)
			i = (i + 1) % len(spinnerChars)

			select {
			case <-stop:
				fmt.Fprintf(s.out, "\r%s\r", clearLine)
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the spinner and clears its line. It waits for the
// animation goroutine to finish.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Active reports whether the spinner is running
func (s *Spinner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}
