package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pdf_summarizer/logging"
)

// ErrInterrupted is the cancellation cause after a shutdown signal.
var ErrInterrupted = errors.New("interrupted")

// DefaultTimeout bounds the cleanup run by Shutdown.
const DefaultTimeout = 10 * time.Second

// Manager owns the command context and the cleanup registry.
//
//	m := shutdown.NewManager(ctx, logger)
//	m.Start()
//	defer m.Shutdown()
//	err := processor.Process(m.Context(), path)
type Manager struct {
	logger   *logging.Logger
	timeout  time.Duration
	exit     func(code int)
	registry *Registry
	signals  *SignalCounter

	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	started  bool
	stopped  bool
	received os.Signal
	sigChan  chan os.Signal
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets how long Shutdown waits for cleanup.
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// WithExitFunc replaces os.Exit for the forced exit on a second signal.
func WithExitFunc(exit func(code int)) Option {
	return func(m *Manager) {
		m.exit = exit
	}
}

// NewManager creates a Manager whose context is derived from parent.
func NewManager(parent context.Context, logger *logging.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancelCause(parent)
	m := &Manager{
		logger:   logger,
		timeout:  DefaultTimeout,
		exit:     os.Exit,
		registry: NewRegistry(),
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.signals = NewSignalCounter(2, func() {
		m.logger.Warn("Received second signal, exiting immediately")
		m.logger.Sync()
		m.exit(ExitCodeForSignal(m.Signal()))
	})
	return m
}

// Context is cancelled, with cause ErrInterrupted, on the first signal.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Register adds a cleanup function run by Shutdown. Lower priorities run
// first.
func (m *Manager) Register(name string, priority int, fn Func) {
	m.registry.Register(name, priority, fn)
	m.logger.Debug("Registered shutdown handler", zap.String("name", name), zap.Int("priority", priority))
}

// Start listens for SIGINT and SIGTERM. Calling it again does nothing.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.stopped {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			m.handle(sig)
		}
	}()
}

// handle processes one signal.
func (m *Manager) handle(sig os.Signal) {
	m.mu.Lock()
	if m.received == nil {
		m.received = sig
	}
	m.mu.Unlock()

	if m.signals.Increment() == 1 {
		m.logger.Info("Received shutdown signal, cancelling", zap.String("signal", sig.String()))
		m.cancel(ErrInterrupted)
	}
}

// Signal returns the first signal received, or nil.
func (m *Manager) Signal() os.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

// Interrupted reports whether a shutdown signal has been received.
func (m *Manager) Interrupted() bool {
	return m.Signal() != nil
}

// Shutdown stops listening for signals, cancels the context and runs the
// registered cleanup within the timeout. Later calls return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	if m.started {
		signal.Stop(m.sigChan)
		close(m.sigChan)
	}
	m.mu.Unlock()

	m.cancel(context.Canceled)

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.logger.Debug("Running shutdown handlers", zap.Strings("handlers", m.registry.Names()))
	if err := m.registry.Run(ctx); err != nil {
		m.logger.Error("Shutdown completed with errors", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return err
	}
	m.logger.Debug("Shutdown complete", zap.Duration("duration", time.Since(start)))
	return nil
}
