package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLogFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMiddleware(func() *zap.Logger { return zap.New(core) })
	ca := auth.New(auth.Config{DevBypass: true}, nil)

	h := chimd.RequestID(ca.Middleware()(m.Middleware(ca)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "hello")
	}))))

	r := httptest.NewRequest(http.MethodPost, "/items/7?x=1", nil)
	r.Header.Set("X-Dev-User", "ada")
	r.Header.Set("X-Dev-Role", "ops")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, 1, logs.Len())
	f := logs.All()[0].ContextMap()
	assert.Equal(t, "/items/7", f["uri"])
	assert.Equal(t, "POST", f["httpMethod"])
	assert.Equal(t, int64(http.StatusCreated), f["status"])
	assert.Equal(t, int64(5), f["responseSize"])
	assert.Equal(t, "ada", f["username"])
	assert.Equal(t, "ops", f["role"])
	assert.Equal(t, true, f["isAuthenticated"])
	assert.NotEmpty(t, f["requestId"])
}

func TestAccessLoggerIsLazy(t *testing.T) {
	calls := 0
	m := NewMiddleware(func() *zap.Logger { calls++; return zap.NewNop() })
	assert.Equal(t, 0, calls)

	h := m.Middleware(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1, calls)
}

func TestNewLogWritesFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLog("system.log", WithDir(dir), WithLevel(zapcore.WarnLevel), WithoutConsole())
	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "dropped")
	assert.Contains(t, string(b), `"msg":"kept"`)
	assert.Contains(t, string(b), `"k":"v"`)
}
