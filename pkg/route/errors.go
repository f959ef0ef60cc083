package route

import "errors"

var (
	ErrUnknownMethod        = errors.New("route: unknown http method")
	ErrEmptyCommand         = errors.New("route: empty command")
	ErrNotEnoughArguments   = errors.New("route: not enough arguments")
	ErrWildcardNotTerminal  = errors.New("route: wildcard must be the last segment")
	ErrEmptyPlaceholder     = errors.New("route: placeholder needs a name")
	ErrDuplicatePlaceholder = errors.New("route: duplicate placeholder")
	ErrMalformedPlaceholder = errors.New("route: malformed placeholder")
)
