package kernel

import (
	"context"
	"fmt"
	"reflect"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// Controller declares its handlers on a Routes builder.
type Controller interface {
	Routes(r *Routes)
}

// Routes collects handler declarations from one source. Invalid entries are
// reported and skipped; valid ones keep their declaration order.
type Routes struct {
	source   string
	owner    any
	handlers []HandlerDescriptor
	errs     []error
}

func NewRoutes(source string) *Routes { return &Routes{source: source} }

func (r *Routes) Get(pattern string, fn any, params ...string) {
	r.Handle(route.Get, pattern, fn, params...)
}

func (r *Routes) Head(pattern string, fn any, params ...string) {
	r.Handle(route.Head, pattern, fn, params...)
}

func (r *Routes) Post(pattern string, fn any, params ...string) {
	r.Handle(route.Post, pattern, fn, params...)
}

func (r *Routes) Put(pattern string, fn any, params ...string) {
	r.Handle(route.Put, pattern, fn, params...)
}

func (r *Routes) Patch(pattern string, fn any, params ...string) {
	r.Handle(route.Patch, pattern, fn, params...)
}

func (r *Routes) Delete(pattern string, fn any, params ...string) {
	r.Handle(route.Delete, pattern, fn, params...)
}

func (r *Routes) Options(pattern string, fn any, params ...string) {
	r.Handle(route.Options, pattern, fn, params...)
}

// Command registers a CLI handler for the named command.
func (r *Routes) Command(name string, fn any, params ...string) {
	if name == "" {
		r.fail(route.Verb{Domain: route.DomainCLI}, name, fn, route.ErrEmptyCommand)
		return
	}
	r.Handle(route.Command(name), name, fn, params...)
}

// Handle registers fn for any verb.
func (r *Routes) Handle(verb route.Verb, pattern string, fn any, params ...string) {
	h, err := NewHandler(verb, pattern, fn, params...)
	if err != nil {
		r.fail(verb, pattern, fn, err)
		return
	}
	h.Source = r.source
	h.Owner = r.owner
	r.handlers = append(r.handlers, h)
}

func (r *Routes) fail(verb route.Verb, pattern string, fn any, err error) {
	method := fmt.Sprintf("%T", fn)
	if v := reflect.ValueOf(fn); v.IsValid() && v.Kind() == reflect.Func && !v.IsNil() {
		method = funcName(v)
	}
	r.errs = append(r.errs, &DiscoveryError{Source: r.source, Verb: verb, Pattern: pattern, Method: method, Err: err})
}

func (r *Routes) Handlers() []HandlerDescriptor { return r.handlers }
func (r *Routes) Errors() []error               { return r.errs }

// Discovery assembles a Registry from controllers. Controllers are built
// through the container so their constructor dependencies are injected.
// Failures go to the sink and never abort discovery.
type Discovery struct {
	c        *inject.Container
	sink     ErrorSink
	handlers []HandlerDescriptor
	reserved map[reservation]string
}

type reservation struct {
	verb    route.Verb
	pattern string
}

func reserve(verb route.Verb, pattern string) reservation {
	if !verb.IsCommand() {
		pattern = route.NormalizePath(pattern)
	}
	return reservation{verb: verb, pattern: pattern}
}

func NewDiscovery(c *inject.Container, sink ErrorSink) *Discovery {
	if c == nil {
		c = inject.New()
	}
	if sink == nil {
		sink = SinkFunc(func(error) {})
	}
	_ = inject.RequireSeed[route.Request](c)
	return &Discovery{c: c, sink: sink}
}

// AddController instantiates T and registers its routes.
func AddController[T Controller](ctx context.Context, d *Discovery) bool {
	ctrl, err := inject.Instantiate[T](ctx, d.c)
	if err != nil {
		d.sink.Report(&DiscoveryError{Source: reflect.TypeOf((*T)(nil)).Elem().String(), Err: err})
		return false
	}
	d.Add(ctrl)
	return true
}

// AddType instantiates a controller by its registered type name.
func (d *Discovery) AddType(ctx context.Context, typeName string) bool {
	v, err := d.c.Instantiate(ctx, typeName)
	if err != nil {
		d.sink.Report(&DiscoveryError{Source: typeName, Err: err})
		return false
	}
	ctrl, ok := v.(Controller)
	if !ok {
		d.sink.Report(&DiscoveryError{Source: typeName, Err: ErrNotController})
		return false
	}
	d.Add(ctrl)
	return true
}

// Add registers the routes of an already built controller.
func (d *Discovery) Add(ctrl Controller) {
	rs := NewRoutes(fmt.Sprintf("%T", ctrl))
	rs.owner = ctrl
	d.collect(rs, func() { ctrl.Routes(rs) })
}

// Func registers routes declared by a plain function.
func (d *Discovery) Func(source string, declare func(*Routes)) {
	rs := NewRoutes(source)
	d.collect(rs, func() { declare(rs) })
}

func (d *Discovery) collect(rs *Routes, declare func()) {
	defer func() {
		if r := recover(); r != nil {
			d.sink.Report(&DiscoveryError{Source: rs.source, Err: fmt.Errorf("%w: declaring routes: %v", ErrBadHandler, r)})
		}
	}()
	declare()
	for _, err := range rs.errs {
		d.sink.Report(err)
	}
	for _, h := range rs.handlers {
		d.Handler(h)
	}
}

// Handler adds a descriptor built elsewhere, such as from a manifest.
func (d *Discovery) Handler(h HandlerDescriptor) {
	if owner, taken := d.reserved[reserve(h.Verb, h.Pattern.String())]; taken {
		d.sink.Report(&DiscoveryError{
			Source:  h.Source,
			Verb:    h.Verb,
			Pattern: h.Pattern.String(),
			Method:  h.Method,
			Err:     fmt.Errorf("%w by %s", ErrReserved, owner),
		})
		return
	}
	d.handlers = append(d.handlers, h)
}

// Reserve claims an exact verb and pattern for owner, which serves it in front
// of the kernel. Handlers declared for it are reported with ErrReserved and
// left out. Patterns that only overlap, such as "/{name}", are still accepted.
func (d *Discovery) Reserve(verb route.Verb, pattern, owner string) {
	if d.reserved == nil {
		d.reserved = make(map[reservation]string)
	}
	d.reserved[reserve(verb, pattern)] = owner
}

// Report forwards err to the discovery sink.
func (d *Discovery) Report(err error) {
	if err != nil {
		d.sink.Report(err)
	}
}

// Registry freezes everything discovered so far.
func (d *Discovery) Registry() *Registry { return NewRegistry(d.handlers...) }

func (d *Discovery) Container() *inject.Container { return d.c }
