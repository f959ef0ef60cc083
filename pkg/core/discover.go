package core

import (
	"errors"

	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	manifest "github.com/joeydtaylor/steeze-kernel/pkg/manifest"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

var ErrUnknownHandler = errors.New("core: handler not in catalog")

const manifestSource = "manifest"

// Discover binds every manifest route and command to its catalog entry and
// adds it to d, routes first, each in file order. Entries that cannot be
// bound are reported to the discovery sink and skipped.
func Discover(d *kernel.Discovery, cfg manifest.Config, cat *Catalog, adminRole string) {
	if cat == nil {
		cat = registry
	}
	for _, rt := range cfg.Routes {
		verb, err := route.ParseMethod(rt.Method)
		if err != nil {
			d.Report(&kernel.DiscoveryError{Source: manifestSource, Pattern: rt.Path, Method: rt.Handler, Err: err})
			continue
		}
		bind(d, cat, verb, rt.Path, rt.Handler, "", guardFor(rt.Guard, adminRole))
	}
	for _, c := range cfg.Commands {
		bind(d, cat, route.Command(c.Name), c.Name, c.Handler, c.Description, guardFor(c.Guard, adminRole))
	}
}

func bind(d *kernel.Discovery, cat *Catalog, verb route.Verb, pattern, name, summary string, g kernel.Guard) {
	e, ok := cat.Lookup(name)
	if !ok {
		d.Report(&kernel.DiscoveryError{Source: manifestSource, Verb: verb, Pattern: pattern, Method: name, Err: ErrUnknownHandler})
		return
	}
	h, err := kernel.NewHandler(verb, pattern, e.Fn, e.Params...)
	if err != nil {
		d.Report(&kernel.DiscoveryError{Source: manifestSource, Verb: verb, Pattern: pattern, Method: name, Err: err})
		return
	}
	h.Source = manifestSource
	h.Summary = summary
	h.Guard = g
	d.Handler(h)
}
