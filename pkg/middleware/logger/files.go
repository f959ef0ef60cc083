package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logOptions struct {
	dir     string
	level   zapcore.Level
	console bool
}

type LogOption func(*logOptions)

func WithDir(dir string) LogOption        { return func(o *logOptions) { o.dir = dir } }
func WithLevel(l zapcore.Level) LogOption { return func(o *logOptions) { o.level = l } }
func WithoutConsole() LogOption           { return func(o *logOptions) { o.console = false } }

// NewLog builds a JSON logger writing to the rotated file <dir>/<name> and,
// unless disabled, to stdout.
func NewLog(name string, opts ...LogOption) *zap.Logger {
	o := logOptions{dir: "log", level: zap.InfoLevel, console: true}
	for _, fn := range opts {
		fn(&o)
	}
	_ = os.MkdirAll(o.dir, 0o755)

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(o.dir, name),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, o.level)}
	if o.console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(os.Stdout), o.level))
	}
	return zap.New(zapcore.NewTee(cores...))
}
