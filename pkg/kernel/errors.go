package kernel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	"go.uber.org/zap"
)

var (
	ErrBadHandler          = errors.New("kernel: invalid handler")
	ErrCoercionUnsupported = errors.New("kernel: only string parameters can be extracted from a request")
	ErrParamNames          = errors.New("kernel: parameter names do not match the handler signature")
	ErrHandlerPanic        = errors.New("kernel: handler panicked")
	ErrNotController       = errors.New("kernel: type does not implement Controller")
	ErrReserved            = errors.New("kernel: route is served outside the registry")
)

// DiscoveryError is reported when a handler or controller cannot be
// registered. The offending entry is left out of the registry.
type DiscoveryError struct {
	Source  string
	Verb    route.Verb
	Pattern string
	Method  string
	Err     error
}

func (e *DiscoveryError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("discover %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("discover %s: %s %s (%s): %v", e.Source, e.Verb, e.Pattern, e.Method, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// InvocationError wraps an error returned by a matched handler, or a panic
// recovered while it ran.
type InvocationError struct {
	Handler string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s: %v", e.Handler, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ErrorSink receives errors that are recovered locally, such as discovery
// failures, so they are never dropped silently.
type ErrorSink interface {
	Report(err error)
}

type SinkFunc func(error)

func (f SinkFunc) Report(err error) { f(err) }

// LogSink reports errors to a zap logger at error level.
func LogSink(l *zap.Logger) ErrorSink {
	if l == nil {
		l = zap.NewNop()
	}
	return SinkFunc(func(err error) {
		var de *DiscoveryError
		if errors.As(err, &de) {
			l.Error("handler discovery failed",
				zap.String("source", de.Source),
				zap.String("verb", de.Verb.String()),
				zap.String("pattern", de.Pattern),
				zap.String("method", de.Method),
				zap.Error(de.Err),
			)
			return
		}
		l.Error("kernel error", zap.Error(err))
	})
}

// CollectSink keeps reported errors in memory.
type CollectSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *CollectSink) Report(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *CollectSink) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}
