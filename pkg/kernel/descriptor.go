package kernel

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// ParameterSignature describes one declared handler parameter.
type ParameterSignature struct {
	Name     string
	Type     reflect.Type
	Builtin  bool
	Variadic bool
}

func (p ParameterSignature) String() string {
	if p.Builtin {
		return p.Name + " " + p.Type.String()
	}
	return p.Type.String()
}

type resultKind uint8

const (
	resultResponse resultKind = iota
	resultText
)

// Guard runs after a handler matched and before its arguments are resolved.
// Returning false ends the dispatch with resp.
type Guard func(ctx context.Context, req route.Request) (resp Response, ok bool)

// HandlerDescriptor is one registered (verb, pattern, handler) entry.
type HandlerDescriptor struct {
	Verb    route.Verb
	Pattern route.Pattern
	Owner   any // declaring controller, nil for plain functions
	Method  string
	Params  []ParameterSignature
	Source  string
	Summary string
	Guard   Guard

	fn       reflect.Value
	result   resultKind
	fallible bool
}

func (h *HandlerDescriptor) String() string {
	return fmt.Sprintf("%s %s -> %s", h.Verb, h.Pattern, h.Method)
}

var (
	responseType = reflect.TypeOf(Response{})
	stringType   = reflect.TypeOf("")
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// NewHandler validates fn against the pattern and builds a descriptor.
//
// fn must return Response, string, or either followed by error. Its builtin
// parameters (strings, *string, and for commands a trailing []string) are
// named positionally by names; for HTTP handlers the names select path
// placeholders. Any other parameter is resolved as a service.
func NewHandler(verb route.Verb, pattern string, fn any, names ...string) (HandlerDescriptor, error) {
	var p route.Pattern
	var err error
	if verb.IsCommand() {
		p = route.CommandPattern(verb.Name)
	} else {
		p, err = route.ParsePattern(pattern)
	}
	if err != nil {
		return HandlerDescriptor{}, err
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return HandlerDescriptor{}, fmt.Errorf("%w: %T is not a function", ErrBadHandler, fn)
	}
	h := HandlerDescriptor{Verb: verb, Pattern: p, Method: funcName(v), fn: v}
	if err := h.bindResults(v.Type()); err != nil {
		return HandlerDescriptor{}, err
	}
	if err := h.bindParams(v.Type(), names); err != nil {
		return HandlerDescriptor{}, err
	}
	return h, nil
}

func (h *HandlerDescriptor) bindResults(t reflect.Type) error {
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return fmt.Errorf("%w: second result must be error, got %s", ErrBadHandler, t.Out(1))
		}
		h.fallible = true
	default:
		return fmt.Errorf("%w: want 1 or 2 results, got %d", ErrBadHandler, t.NumOut())
	}
	switch t.Out(0) {
	case responseType:
		h.result = resultResponse
	case stringType:
		h.result = resultText
	default:
		return fmt.Errorf("%w: unsupported result type %s", ErrBadHandler, t.Out(0))
	}
	return nil
}

func (h *HandlerDescriptor) bindParams(t reflect.Type, names []string) error {
	cli := h.Verb.IsCommand()
	n := t.NumIn()
	h.Params = make([]ParameterSignature, 0, n)
	builtins := 0

	for i := 0; i < n; i++ {
		in := t.In(i)
		variadic := t.IsVariadic() && i == n-1
		if !inject.IsBuiltin(in) {
			if variadic {
				return fmt.Errorf("%w: variadic parameter %s", ErrBadHandler, in)
			}
			h.Params = append(h.Params, ParameterSignature{Name: in.String(), Type: in})
			continue
		}

		switch {
		case in.Kind() == reflect.String:
		case in.Kind() == reflect.Ptr && in.Elem().Kind() == reflect.String:
		case in.Kind() == reflect.Slice && in.Elem().Kind() == reflect.String:
			if !cli || i != n-1 {
				return fmt.Errorf("%w: %s is only allowed as the last parameter of a command", ErrCoercionUnsupported, in)
			}
			variadic = true
		default:
			return fmt.Errorf("%w: parameter %d has type %s", ErrCoercionUnsupported, i, in)
		}

		sig := ParameterSignature{Type: in, Builtin: true, Variadic: variadic}
		if builtins < len(names) {
			sig.Name = names[builtins]
		} else if cli {
			sig.Name = fmt.Sprintf("arg%d", builtins)
		}
		builtins++
		h.Params = append(h.Params, sig)
	}

	if len(names) > builtins || (!cli && len(names) != builtins) {
		return fmt.Errorf("%w: %d names for %d request parameters", ErrParamNames, len(names), builtins)
	}
	seen := make(map[string]struct{}, builtins)
	for _, p := range h.Params {
		if !p.Builtin {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrParamNames, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// invoke calls the handler with resolved arguments.
func (h *HandlerDescriptor) invoke(args []reflect.Value) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvocationError{Handler: h.String(), Err: fmt.Errorf("%w: %v", ErrHandlerPanic, r)}
		}
	}()

	var out []reflect.Value
	if h.fn.Type().IsVariadic() {
		out = h.fn.CallSlice(args)
	} else {
		out = h.fn.Call(args)
	}

	switch h.result {
	case resultText:
		resp = Text(out[0].String())
	default:
		resp = out[0].Interface().(Response)
	}
	if h.fallible {
		if e, _ := out[1].Interface().(error); e != nil {
			return resp, &InvocationError{Handler: h.String(), Err: e}
		}
	}
	return resp, nil
}

// funcName renders a function or method value as "pkg.(*Type).Method".
func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return v.Type().String()
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
