package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeydtaylor/steeze-kernel/internal/demo"
	"github.com/joeydtaylor/steeze-kernel/pkg/serverfx"
	"github.com/joeydtaylor/steeze-kernel/pkg/transport/cli"
)

func main() {
	opts := []serverfx.Option{
		serverfx.WithServices(demo.Provide),
		serverfx.Controller[*demo.HelloController](),
	}

	root := cli.New("steeze-kernel",
		func() (cli.Dispatcher, error) {
			k, err := serverfx.OpenKernel(opts...)
			if err != nil {
				return nil, err
			}
			return k, nil
		},
		func(ctx context.Context) error { return serverfx.Run(ctx, opts...) },
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
