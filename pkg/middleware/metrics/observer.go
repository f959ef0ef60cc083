package metrics

import (
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
)

// ObserveDispatch implements kernel.Observer. The pattern label is the
// registered pattern, never the concrete path, so cardinality stays bounded
// by the registry size.
func (m *Metrics) ObserveDispatch(ev kernel.DispatchEvent) {
	domain := ev.Verb.Domain.String()
	verb := ev.Verb.Name
	if ev.Pattern == "" && (ev.Verb.IsCommand() || ev.Outcome == kernel.OutcomeBadRequest) {
		// unmatched commands and unknown methods would otherwise put user input in a label
		verb = ""
	}
	m.dispatches.WithLabelValues(domain, verb, ev.Pattern, string(ev.Outcome)).Inc()
	m.dispatchLatency.WithLabelValues(domain, string(ev.Outcome)).Observe(ev.Duration.Seconds())
}

var _ kernel.Observer = (*Metrics)(nil)
