package route

import (
	"fmt"
	"strings"
)

// Request is the normalized descriptor handed to the dispatcher by a transport.
// HTTP requests carry Path; CLI requests carry the command token as their only
// Path segment and the remaining argv in Args.
type Request struct {
	Verb Verb
	Path []string
	Args []string
}

// NewHTTPRequest builds a request from an HTTP method and a raw request URI.
func NewHTTPRequest(method, uri string) (Request, error) {
	v, err := ParseMethod(method)
	if err != nil {
		return Request{}, err
	}
	return Request{Verb: v, Path: Segments(uri)}, nil
}

// NewCLIRequest builds a request from a full argument vector: argv[0] is the
// program, argv[1] selects the command and the rest are passed through.
func NewCLIRequest(argv []string) (Request, error) {
	if len(argv) < 2 {
		return Request{}, ErrNotEnoughArguments
	}
	cmd := argv[1]
	if strings.TrimSpace(cmd) == "" {
		return Request{}, ErrEmptyCommand
	}
	args := append([]string(nil), argv[2:]...)
	return Request{Verb: Command(cmd), Path: []string{cmd}, Args: args}, nil
}

func (r Request) String() string {
	if r.Verb.IsCommand() {
		return fmt.Sprintf("%s %s", r.Verb.Name, strings.Join(r.Args, " "))
	}
	return fmt.Sprintf("%s /%s", r.Verb.Name, strings.Join(r.Path, "/"))
}
