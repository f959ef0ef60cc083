// pkg/route/verb.go
package route

import (
	"fmt"
	"strings"
)

// Domain separates HTTP methods from CLI command tokens so the two never cross-match.
type Domain uint8

const (
	DomainHTTP Domain = iota + 1
	DomainCLI
)

func (d Domain) String() string {
	switch d {
	case DomainHTTP:
		return "http"
	case DomainCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// Verb is an HTTP method or a CLI command token.
type Verb struct {
	Domain Domain
	Name   string
}

var (
	Get     = Verb{Domain: DomainHTTP, Name: "GET"}
	Head    = Verb{Domain: DomainHTTP, Name: "HEAD"}
	Post    = Verb{Domain: DomainHTTP, Name: "POST"}
	Put     = Verb{Domain: DomainHTTP, Name: "PUT"}
	Delete  = Verb{Domain: DomainHTTP, Name: "DELETE"}
	Connect = Verb{Domain: DomainHTTP, Name: "CONNECT"}
	Options = Verb{Domain: DomainHTTP, Name: "OPTIONS"}
	Trace   = Verb{Domain: DomainHTTP, Name: "TRACE"}
	Patch   = Verb{Domain: DomainHTTP, Name: "PATCH"}
)

var methods = map[string]Verb{
	"GET":     Get,
	"HEAD":    Head,
	"POST":    Post,
	"PUT":     Put,
	"DELETE":  Delete,
	"CONNECT": Connect,
	"OPTIONS": Options,
	"TRACE":   Trace,
	"PATCH":   Patch,
}

// ParseMethod maps an HTTP method name onto its Verb. Matching is case-insensitive.
func ParseMethod(method string) (Verb, error) {
	v, ok := methods[strings.ToUpper(strings.TrimSpace(method))]
	if !ok {
		return Verb{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return v, nil
}

// Command returns the CLI verb for a command token.
func Command(name string) Verb { return Verb{Domain: DomainCLI, Name: name} }

func (v Verb) IsHTTP() bool    { return v.Domain == DomainHTTP }
func (v Verb) IsCommand() bool { return v.Domain == DomainCLI }

func (v Verb) String() string {
	if v.IsCommand() {
		return "cmd:" + v.Name
	}
	return v.Name
}
