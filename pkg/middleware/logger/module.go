package logger

import (
	"github.com/joeydtaylor/steeze-kernel/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLogger(cfg config.Config) *zap.Logger {
	return NewLog("system.log", WithDir(cfg.LogDir), WithLevel(cfg.Level())).
		With(zap.String("service", cfg.Service))
}

func ProvideLoggerMiddleware(cfg config.Config) *Middleware {
	return NewMiddleware(func() *zap.Logger {
		return NewLog("http-access.log", WithDir(cfg.LogDir))
	})
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
