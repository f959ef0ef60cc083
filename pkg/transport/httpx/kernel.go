package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
)

// Dispatcher is the part of the kernel the HTTP transport needs.
type Dispatcher interface {
	DispatchHTTP(ctx context.Context, method, uri string) (kernel.Response, error)
}

// Handler serves every request through d. Dispatch errors are already
// logged by the kernel and carry a ready 500 response, so they are not
// written twice here.
func Handler(d Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, _ := d.DispatchHTTP(r.Context(), r.Method, r.URL.RequestURI())
		Write(w, resp)
	})
}

// Write sends resp with its status and content type.
func Write(w http.ResponseWriter, resp kernel.Response) {
	h := w.Header()
	if resp.ContentType != "" {
		h.Set("Content-Type", resp.ContentType)
	}
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.StatusCode())
	_ = resp.Deliver(w)
}
