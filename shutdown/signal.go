// Package shutdown turns SIGINT and SIGTERM into context cancellation and
// runs cleanup before the CLI exits. The first signal cancels the running
// command; the second exits immediately.
package shutdown

import (
	"os"
	"sync"
	"syscall"

	"pdf_summarizer/core"
)

// SignalCounter counts shutdown signals and calls onForce once the count
// reaches forceAfter, and again on every later signal.
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	forceAfter int
	onForce    func()
}

// NewSignalCounter creates a SignalCounter. onForce may be nil.
func NewSignalCounter(forceAfter int, onForce func()) *SignalCounter {
	return &SignalCounter{
		forceAfter: forceAfter,
		onForce:    onForce,
	}
}

// Increment records a signal and returns the new count. onForce runs with
// the lock held, so it should exit the process or return quickly.
func (s *SignalCounter) Increment() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.count >= s.forceAfter && s.onForce != nil {
		s.onForce()
	}
	return s.count
}

// Count returns the number of signals seen.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Reset sets the count back to zero.
func (s *SignalCounter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
}

// ExitCodeForSignal returns 143 for SIGTERM and 130 for anything else,
// including os.Interrupt on Windows.
func ExitCodeForSignal(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return core.ExitCodeSIGTERM
	}
	return core.ExitCodeSIGINT
}
