package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
)

// spinnerFrames animates a wall being carved into floor.
var spinnerFrames = []string{"█", "▓", "▒", "░", "▒", "▓"}

const spinnerInterval = 100 * time.Millisecond

// spinner shows a progress line on a terminal while a long step runs.
// On anything that is not a terminal it stays silent so piped output and
// log files are not littered with carriage returns.
type spinner struct {
	w       io.Writer
	enabled bool

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	message string
	start   time.Time
	width   int // widest line drawn so far, for clearing

	once    sync.Once
	stopped chan struct{}
}

// newSpinner returns a spinner that draws to w and stops when ctx is done.
func newSpinner(parent context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		w:       w,
		enabled: isTerminal(w),
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// Start begins the animation.
func (s *spinner) Start() {
	s.mu.Lock()
	s.start = time.Now()
	s.mu.Unlock()

	if !s.enabled {
		close(s.stopped)
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// Cancelled reports whether the context the spinner was created with has ended.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Elapsed returns the time since Start.
func (s *spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() {
		return 0
	}
	return time.Since(s.start)
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", frame, s.message, elapsed)
	s.width = max(s.width, len([]rune(line)))
	fmt.Fprintf(s.w, "\r%s %s %s", styleSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(elapsed.String()))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}
