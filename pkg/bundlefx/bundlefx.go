// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the logger, auth middleware and dispatch metrics.
// It expects a config.Config in the graph.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
