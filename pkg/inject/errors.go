package inject

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotProvided      = errors.New("inject: no provider for type")
	ErrAbstract         = errors.New("inject: abstract type has no binding")
	ErrCycle            = errors.New("inject: dependency cycle")
	ErrBadConstructor   = errors.New("inject: invalid constructor")
	ErrDuplicate        = errors.New("inject: provider already registered")
	ErrConstructorPanic = errors.New("inject: constructor panicked")

	ErrCaptiveDependency = errors.New("inject: singleton depends on a per-scope value")
	ErrNotSeeded         = errors.New("inject: type must be seeded into the scope")
)

// InstantiationError reports a failed construction. Type is the type that could
// not be built and Chain the resolution path that led to it, outermost first.
type InstantiationError struct {
	Type  string
	Chain []string
	Err   error
}

func (e *InstantiationError) Error() string {
	if len(e.Chain) > 1 {
		return fmt.Sprintf("instantiate %s (via %s): %v", e.Type, strings.Join(e.Chain, " -> "), e.Err)
	}
	return fmt.Sprintf("instantiate %s: %v", e.Type, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }
