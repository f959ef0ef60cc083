package demo

import (
	"strings"

	"github.com/joeydtaylor/steeze-kernel/pkg/core"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

func init() {
	core.Register("demo.whoami", WhoAmI)
	core.Register("demo.files", Files)
	core.Register("demo.shout", Shout)
	core.Register("demo.wave", Wave, "name")
}

func WhoAmI(u auth.User) (kernel.Response, error) { return kernel.JSON(u) }

// Files echoes the path captured by a trailing wildcard.
func Files(req route.Request) string {
	if len(req.Path) < 2 {
		return ""
	}
	return strings.Join(req.Path[1:], "/")
}

func Shout(words ...string) string { return strings.ToUpper(strings.Join(words, " ")) }

func Wave(g Greeter, name string) string { return g.Greet(name) + " o/" }
