package auth

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthentication builds the middleware and, when a key source is
// configured, loads the key on start and keeps it fresh until stop. A failed
// first load is logged, not fatal.
func ProvideAuthentication(lc fx.Lifecycle, cfg Config, log *zap.Logger) *Middleware {
	m := New(cfg, nil)
	if !m.keys.Configured() {
		return m
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(start context.Context) error {
			if err := m.keys.Refresh(start); err != nil {
				log.Warn("assertion key load failed", zap.Error(err))
			}
			go m.keys.Run(ctx, func(err error) {
				log.Warn("assertion key refresh failed", zap.Error(err))
			})
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return m
}

var Module = fx.Options(
	fx.Provide(LoadConfig),
	fx.Provide(ProvideAuthentication),
)
