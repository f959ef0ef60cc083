package inject

import (
	"context"
	"fmt"
	"reflect"
)

// Scope resolves services for a single unit of work, typically one dispatch.
// Scoped instances and seeded values live in the scope; it is not safe for
// concurrent use and must not outlive the call that created it.
type Scope struct {
	c      *Container
	values map[reflect.Type]reflect.Value
	stack  []reflect.Type
	root   bool
}

// NewScope starts a resolution scope seeded with ctx as its context.Context.
func (c *Container) NewScope(ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Scope{c: c, values: make(map[reflect.Type]reflect.Value)}
	s.values[contextType] = reflect.ValueOf(&ctx).Elem()
	return s
}

// rootScope is where singletons are built. It holds no seeded values, so
// nothing from a dispatch call can end up inside a singleton.
func (c *Container) rootScope(chain []reflect.Type) *Scope {
	s := c.NewScope(context.Background())
	s.root = true
	s.stack = append(s.stack, chain...)
	return s
}

// Seed makes v the value for T inside the scope, shadowing any provider.
func Seed[T any](s *Scope, v T) {
	s.values[typeOf[T]()] = reflect.ValueOf(&v).Elem()
}

// Resolve returns an instance of T from the scope.
func Resolve[T any](s *Scope) (T, error) {
	var zero T
	v, err := s.Resolve(typeOf[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

// Resolve builds or fetches a value of type t, recursively resolving the
// constructor dependencies of t.
func (s *Scope) Resolve(t reflect.Type) (reflect.Value, error) {
	if v, ok := s.values[t]; ok {
		return v, nil
	}
	for _, x := range s.stack {
		if x == t {
			s.stack = append(s.stack, t)
			err := s.fail(t, ErrCycle)
			s.stack = s.stack[:len(s.stack)-1]
			return reflect.Value{}, err
		}
	}

	s.stack = append(s.stack, t)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	p := s.c.lookup(t)
	if p == nil {
		return s.construct(t)
	}

	switch p.lifetime {
	case Singleton:
		return s.singleton(p)
	case Scoped:
		if s.root {
			return reflect.Value{}, s.fail(t, ErrCaptiveDependency)
		}
		if p.seedOnly {
			return reflect.Value{}, s.fail(t, ErrNotSeeded)
		}
		v, err := s.call(p)
		if err != nil {
			return reflect.Value{}, err
		}
		s.values[t] = v
		return v, nil
	default:
		return s.call(p)
	}
}

func (s *Scope) singleton(p *provider) (reflect.Value, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.built {
		return p.value, nil
	}
	r := s
	if !s.root {
		r = s.c.rootScope(s.stack)
	}
	v, err := r.call(p)
	if err != nil {
		return reflect.Value{}, err
	}
	p.value, p.built = v, true
	return v, nil
}

// construct handles types without a provider: structs and pointers to
// structs get their zero value, everything else fails.
func (s *Scope) construct(t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Interface {
		return reflect.Value{}, s.fail(t, ErrAbstract)
	}
	if !s.c.auto {
		return reflect.Value{}, s.fail(t, ErrNotProvided)
	}
	switch {
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()), nil
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Elem(), nil
	default:
		return reflect.Value{}, s.fail(t, ErrNotProvided)
	}
}

func (s *Scope) call(p *provider) (reflect.Value, error) {
	args := make([]reflect.Value, len(p.in))
	for i, in := range p.in {
		if IsBuiltin(in) {
			args[i] = reflect.Zero(in)
			continue
		}
		v, err := s.Resolve(in)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}

	out, err := invoke(p.fn, args)
	if err != nil {
		return reflect.Value{}, s.fail(p.key, err)
	}
	if p.fallible {
		if e, _ := out[1].Interface().(error); e != nil {
			return reflect.Value{}, s.fail(p.key, e)
		}
	}

	v := out[0]
	if v.Type() != p.key {
		nv := reflect.New(p.key).Elem()
		nv.Set(v)
		v = nv
	}
	return v, nil
}

func invoke(fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrConstructorPanic, r)
		}
	}()
	return fn.Call(args), nil
}

func (s *Scope) fail(t reflect.Type, err error) error {
	chain := make([]string, len(s.stack))
	for i, x := range s.stack {
		chain[i] = x.String()
	}
	return &InstantiationError{Type: t.String(), Chain: chain, Err: err}
}
