package kernel

import (
	"time"

	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeBadRequest Outcome = "bad_request"
	OutcomeDenied     Outcome = "denied"
	OutcomeResolveErr Outcome = "resolve_error"
	OutcomeHandlerErr Outcome = "handler_error"
)

// DispatchEvent describes one completed dispatch.
type DispatchEvent struct {
	Verb     route.Verb
	Pattern  string
	Handler  string
	Outcome  Outcome
	Status   int
	Duration time.Duration
}

// Observer is notified after every dispatch. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveDispatch(ev DispatchEvent)
}

type ObserverFunc func(DispatchEvent)

func (f ObserverFunc) ObserveDispatch(ev DispatchEvent) { f(ev) }

type observers []Observer

func (o observers) ObserveDispatch(ev DispatchEvent) {
	for _, x := range o {
		x.ObserveDispatch(ev)
	}
}
