package metrics

import (
	"net/http"

	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"go.uber.org/fx"
)

func ProvideMetrics() *Metrics { return New(WithRuntimeCollectors()) }

var Module = fx.Options(
	fx.Provide(ProvideMetrics),
	fx.Provide(fx.Annotate(
		func(m *Metrics) http.Handler { return m.Handler() },
		fx.ResultTags(`name:"metrics"`),
	)),
	fx.Provide(fx.Annotate(
		func(m *Metrics) kernel.Observer { return m },
		fx.ResultTags(`group:"observers"`),
	)),
)
