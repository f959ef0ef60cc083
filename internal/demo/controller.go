package demo

import (
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"go.uber.org/zap"
)

type HelloController struct {
	greeter Greeter
	counter *Counter
	log     *zap.Logger
}

func NewHelloController(g Greeter, c *Counter, log *zap.Logger) *HelloController {
	return &HelloController{greeter: g, counter: c, log: log}
}

func (h *HelloController) Routes(r *kernel.Routes) {
	r.Get("/hello/{name}", h.Hello, "name")
	r.Get("/stats", h.Stats)
	r.Command("greet", h.Greet, "name")
}

func (h *HelloController) Hello(name string) string {
	h.counter.Inc()
	return h.greeter.Greet(name)
}

// Greet greets the first argument, or the world when there is none.
func (h *HelloController) Greet(name *string) string {
	if name == nil {
		h.log.Debug("greet called without a name")
		return h.greeter.Greet("world")
	}
	return h.Hello(*name)
}

func (h *HelloController) Stats() (kernel.Response, error) {
	return kernel.JSON(map[string]int64{"greetings": h.counter.Load()})
}
