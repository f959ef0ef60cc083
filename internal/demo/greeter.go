// Package demo is a small application built on the kernel: a controller
// declared in code plus handlers bound from manifest.toml.
package demo

import (
	"sync/atomic"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
)

type Greeter interface {
	Greet(name string) string
}

type greeter struct{ salutation string }

func NewGreeter() Greeter { return greeter{salutation: "Hello"} }

func (g greeter) Greet(name string) string { return g.salutation + ", " + name }

// Counter tracks greetings served by the process.
type Counter struct{ n atomic.Int64 }

func (c *Counter) Inc() int64  { return c.n.Add(1) }
func (c *Counter) Load() int64 { return c.n.Load() }

// Provide registers the demo services.
func Provide(c *inject.Container) error {
	if err := inject.Provide[Greeter](c, NewGreeter, inject.AsSingleton()); err != nil {
		return err
	}
	if err := inject.Provide[*Counter](c, func() *Counter { return &Counter{} }, inject.AsSingleton()); err != nil {
		return err
	}
	return inject.Provide[*HelloController](c, NewHelloController)
}
