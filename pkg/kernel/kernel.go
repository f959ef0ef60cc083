// pkg/kernel/kernel.go
package kernel

import (
	"context"
	"errors"
	"time"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	"go.uber.org/zap"
)

// Kernel routes requests to handlers and invokes them with resolved
// arguments. It is safe for concurrent use once built.
type Kernel struct {
	registry *Registry
	resolver *Resolver
	log      *zap.Logger
	observer observers
}

type Option func(*Kernel)

func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.log = l
		}
	}
}

// WithObserver adds an observer; it may be given more than once.
func WithObserver(o Observer) Option {
	return func(k *Kernel) {
		if o != nil {
			k.observer = append(k.observer, o)
		}
	}
}

func New(reg *Registry, c *inject.Container, opts ...Option) *Kernel {
	if reg == nil {
		reg = NewRegistry()
	}
	k := &Kernel{registry: reg, resolver: NewResolver(c), log: zap.NewNop()}
	for _, o := range opts {
		o(k)
	}
	return k
}

func (k *Kernel) Registry() *Registry { return k.registry }

// Dispatch serves one request. The returned error is non-nil only for
// internal failures; the response is then the generic 500.
func (k *Kernel) Dispatch(ctx context.Context, req route.Request) (Response, error) {
	start := time.Now()
	h, ok := k.registry.Match(req)
	if !ok {
		resp := NotFound(req.Verb)
		k.observe(nil, req, OutcomeNotFound, resp, start)
		k.log.Debug("no handler matched", zap.String("request", req.String()))
		return resp, nil
	}
	if h.Guard != nil {
		if resp, ok := h.Guard(ctx, req); !ok {
			k.observe(h, req, OutcomeDenied, resp, start)
			return resp, nil
		}
	}

	args, err := k.resolver.Resolve(ctx, h.Params, h.Pattern, req)
	if err != nil {
		return k.fail(h, req, OutcomeResolveErr, err, start)
	}
	resp, err := h.invoke(args)
	if err != nil {
		return k.fail(h, req, OutcomeHandlerErr, err, start)
	}
	k.observe(h, req, OutcomeOK, resp, start)
	return resp, nil
}

// DispatchHTTP builds a request from an HTTP method and URI.
func (k *Kernel) DispatchHTTP(ctx context.Context, method, uri string) (Response, error) {
	req, err := route.NewHTTPRequest(method, uri)
	if err != nil {
		resp := methodNotAllowed()
		req.Verb = route.Verb{Domain: route.DomainHTTP, Name: method}
		k.observe(nil, req, OutcomeBadRequest, resp, time.Now())
		return resp, nil
	}
	return k.Dispatch(ctx, req)
}

// DispatchArgs builds a request from a process argument vector, where
// argv[0] is the program name and argv[1] the command.
func (k *Kernel) DispatchArgs(ctx context.Context, argv []string) (Response, error) {
	req, err := route.NewCLIRequest(argv)
	switch {
	case errors.Is(err, route.ErrNotEnoughArguments):
		resp := notEnoughArguments()
		k.observe(nil, route.Request{Verb: route.Verb{Domain: route.DomainCLI}}, OutcomeBadRequest, resp, time.Now())
		return resp, nil
	case err != nil:
		resp := NotFound(route.Verb{Domain: route.DomainCLI})
		k.observe(nil, route.Request{Verb: route.Verb{Domain: route.DomainCLI}}, OutcomeNotFound, resp, time.Now())
		return resp, nil
	}
	return k.Dispatch(ctx, req)
}

func (k *Kernel) fail(h *HandlerDescriptor, req route.Request, oc Outcome, err error, start time.Time) (Response, error) {
	resp := internalError()
	k.log.Error("dispatch failed",
		zap.String("request", req.String()),
		zap.String("pattern", h.Pattern.String()),
		zap.String("handler", h.Method),
		zap.String("outcome", string(oc)),
		zap.Error(err),
	)
	k.observe(h, req, oc, resp, start)
	return resp, err
}

func (k *Kernel) observe(h *HandlerDescriptor, req route.Request, oc Outcome, resp Response, start time.Time) {
	if len(k.observer) == 0 {
		return
	}
	ev := DispatchEvent{
		Verb:     req.Verb,
		Outcome:  oc,
		Status:   resp.StatusCode(),
		Duration: time.Since(start),
	}
	if h != nil {
		ev.Verb = h.Verb
		ev.Pattern = h.Pattern.String()
		ev.Handler = h.Method
	}
	k.observer.ObserveDispatch(ev)
}
