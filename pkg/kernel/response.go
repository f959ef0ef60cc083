// pkg/kernel/response.go
package kernel

import (
	"io"
	"net/http"

	"github.com/joeydtaylor/steeze-kernel/pkg/codec"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

const (
	contentTypeText = "text/plain; charset=utf-8"

	bodyNotFound      = "404"
	bodyNotAllowed    = "405"
	bodyInternal      = "500"
	bodyNoCommand     = "No command found."
	bodyNotEnoughArgs = "Not enough arguments."
)

// Response is what a handler returns. Body is the only content delivered to
// a CLI; the HTTP transport also uses Status and ContentType.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// Text builds a plain-text 200 response. A trailing newline is appended.
func Text(s string) Response {
	return Response{Status: http.StatusOK, ContentType: contentTypeText, Body: s + "\n"}
}

// JSON encodes v with the strict JSON codec.
func JSON(v any) (Response, error) {
	b, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: http.StatusOK, ContentType: codec.JSONStrict.ContentType(), Body: string(b)}, nil
}

func (r Response) WithStatus(code int) Response {
	r.Status = code
	return r
}

// StatusCode defaults to 200 for responses built without a status.
func (r Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Deliver writes the body to w.
func (r Response) Deliver(w io.Writer) error {
	_, err := io.WriteString(w, r.Body)
	return err
}

// NotFound is the fallback for requests no handler matched.
func NotFound(v route.Verb) Response {
	if v.IsCommand() {
		return Text(bodyNoCommand)
	}
	return Text(bodyNotFound).WithStatus(http.StatusNotFound)
}

func notEnoughArguments() Response { return Text(bodyNotEnoughArgs) }
func methodNotAllowed() Response   { return Text(bodyNotAllowed).WithStatus(http.StatusMethodNotAllowed) }
func internalError() Response      { return Text(bodyInternal).WithStatus(http.StatusInternalServerError) }
