package kernel

import (
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// Registry is the ordered, read-only set of handlers built at startup.
// Lookup is first match in registration order.
type Registry struct {
	handlers []HandlerDescriptor
}

func NewRegistry(handlers ...HandlerDescriptor) *Registry {
	return &Registry{handlers: append([]HandlerDescriptor(nil), handlers...)}
}

func (r *Registry) Len() int { return len(r.handlers) }

// Match returns the first handler whose verb and pattern accept req.
func (r *Registry) Match(req route.Request) (*HandlerDescriptor, bool) {
	for i := range r.handlers {
		h := &r.handlers[i]
		if route.Matches(h.Pattern, h.Verb, req) {
			return h, true
		}
	}
	return nil, false
}

// Handlers returns a copy of the registered descriptors.
func (r *Registry) Handlers() []HandlerDescriptor {
	return append([]HandlerDescriptor(nil), r.handlers...)
}

// RouteInfo is a printable summary of one registry entry.
type RouteInfo struct {
	Verb    string   `json:"verb"`
	Pattern string   `json:"pattern"`
	Handler string   `json:"handler"`
	Params  []string `json:"params,omitempty"`
	Source  string   `json:"source,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Guarded bool     `json:"guarded,omitempty"`
}

func (r *Registry) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.handlers))
	for _, h := range r.handlers {
		ri := RouteInfo{
			Verb:    h.Verb.String(),
			Pattern: h.Pattern.String(),
			Handler: h.Method,
			Source:  h.Source,
			Summary: h.Summary,
			Guarded: h.Guard != nil,
		}
		for _, p := range h.Params {
			ri.Params = append(ri.Params, p.String())
		}
		out = append(out, ri)
	}
	return out
}
