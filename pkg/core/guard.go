package core

import (
	"context"
	"net/http"
	"slices"

	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	manifest "github.com/joeydtaylor/steeze-kernel/pkg/manifest"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// guardFor turns a manifest guard into a kernel guard. Users are checked
// before roles; the admin role passes any role check. An empty guard is nil.
func guardFor(g manifest.Guard, adminRole string) kernel.Guard {
	if g.Empty() {
		return nil
	}
	return func(ctx context.Context, _ route.Request) (kernel.Response, bool) {
		u, ok := auth.UserFromContext(ctx)
		if !ok {
			return deny(http.StatusUnauthorized), false
		}
		if len(g.Users) > 0 {
			if slices.Contains(g.Users, u.Username) {
				return kernel.Response{}, true
			}
			return deny(http.StatusForbidden), false
		}
		if len(g.Roles) > 0 {
			if adminRole != "" && u.Role.Name == adminRole {
				return kernel.Response{}, true
			}
			if slices.Contains(g.Roles, u.Role.Name) {
				return kernel.Response{}, true
			}
			return deny(http.StatusForbidden), false
		}
		return kernel.Response{}, true
	}
}

func deny(status int) kernel.Response {
	return kernel.Text(http.StatusText(status)).WithStatus(status)
}
