package kernel

import (
	"context"
	"fmt"
	"reflect"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// Resolver produces handler arguments: services from the container, request
// values from the matched path or command arguments.
type Resolver struct {
	c *inject.Container
}

func NewResolver(c *inject.Container) *Resolver {
	if c == nil {
		c = inject.New()
	}
	// route.Request exists only inside a dispatch scope; declaring it keeps
	// singletons from capturing one. A duplicate declaration is harmless.
	_ = inject.RequireSeed[route.Request](c)
	return &Resolver{c: c}
}

func (r *Resolver) Container() *inject.Container { return r.c }

// Resolve returns one value per parameter, in declaration order. Each call
// opens a fresh scope seeded with ctx and req.
func (r *Resolver) Resolve(ctx context.Context, params []ParameterSignature, p route.Pattern, req route.Request) ([]reflect.Value, error) {
	scope := r.c.NewScope(ctx)
	inject.Seed(scope, req)

	args := make([]reflect.Value, len(params))
	cursor := 0
	for i, ps := range params {
		if !ps.Builtin {
			v, err := scope.Resolve(ps.Type)
			if err != nil {
				return nil, fmt.Errorf("resolve parameter %d (%s): %w", i, ps.Type, err)
			}
			args[i] = v
			continue
		}

		if req.Verb.IsCommand() {
			if ps.Variadic {
				args[i] = stringSlice(ps.Type, req.Args[min(cursor, len(req.Args)):])
				cursor = len(req.Args)
				continue
			}
			if cursor < len(req.Args) {
				args[i] = stringValue(ps.Type, req.Args[cursor])
				cursor++
			} else {
				args[i] = reflect.Zero(ps.Type)
			}
			continue
		}

		idx, ok := p.Placeholder(ps.Name)
		if !ok || idx >= len(req.Path) {
			args[i] = reflect.Zero(ps.Type)
			continue
		}
		args[i] = stringValue(ps.Type, req.Path[idx])
	}
	return args, nil
}

// Values is Resolve with the results unwrapped.
func (r *Resolver) Values(ctx context.Context, params []ParameterSignature, p route.Pattern, req route.Request) ([]any, error) {
	vals, err := r.Resolve(ctx, params, p, req)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Interface()
	}
	return out, nil
}

// stringValue converts s to t, which is a string kind or a pointer to one.
func stringValue(t reflect.Type, s string) reflect.Value {
	if t.Kind() == reflect.Ptr {
		v := reflect.New(t.Elem())
		v.Elem().Set(reflect.ValueOf(s).Convert(t.Elem()))
		return v
	}
	return reflect.ValueOf(s).Convert(t)
}

func stringSlice(t reflect.Type, ss []string) reflect.Value {
	v := reflect.MakeSlice(t, len(ss), len(ss))
	for i, s := range ss {
		v.Index(i).Set(stringValue(t.Elem(), s))
	}
	return v
}
