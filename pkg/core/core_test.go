package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	manifest "github.com/joeydtaylor/steeze-kernel/pkg/manifest"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
version = "1.2.0"

[[route]]
method  = "GET"
path    = "/hello/{name}"
handler = "hello"
tags    = ["demo"]

[[route]]
method  = "DELETE"
path    = "/items/{id}"
handler = "remove"
[route.guard]
roles = ["ops"]

[[route]]
path    = "/me"
handler = "whoami"
[route.guard]
require_auth = true

[[route]]
path    = "/broken"
handler = "missing"

[[command]]
name        = "greet"
handler     = "greet"
description = "print a greeting"
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, c.Register("hello", func(name string) string { return "Hello, " + name }, "name"))
	require.NoError(t, c.Register("remove", func(id string) string { return "removed " + id }, "id"))
	require.NoError(t, c.Register("whoami", func(u auth.User) string { return u.Username }))
	require.NoError(t, c.Register("greet", func(name *string) string {
		if name == nil {
			return "hi"
		}
		return "hi " + *name
	}, "name"))
	return c
}

func testKernel(t *testing.T) (*kernel.Kernel, *kernel.CollectSink) {
	t.Helper()
	cfg, err := ParseConfig([]byte(testManifest))
	require.NoError(t, err)

	c := inject.New()
	require.NoError(t, inject.Provide[auth.User](c, auth.CurrentUser, inject.AsScoped()))
	sink := &kernel.CollectSink{}
	d := kernel.NewDiscovery(c, sink)
	Discover(d, cfg, testCatalog(t), "admin")
	return kernel.New(d.Registry(), c), sink
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testManifest))
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", cfg.Version)
	require.Len(t, cfg.Routes, 4)
	assert.Equal(t, "GET", cfg.Routes[2].Method)
	assert.Equal(t, []string{"demo"}, cfg.Routes[0].Tags)
	assert.True(t, cfg.Routes[2].Guard.RequireAuth)
	require.Len(t, cfg.Commands, 1)
	assert.Equal(t, "print a greeting", cfg.Commands[0].Description)

	_, err = ParseConfig([]byte("[[route]]\npath = \"/a\"\nhandler = \"h\"\nunknown = 1\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("version = \"2.0.0\"\n[[command]]\nname = \"a\"\nhandler = \"h\"\n"))
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Routes, 4)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDiscoverFromManifest(t *testing.T) {
	k, sink := testKernel(t)

	errs := sink.Errors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUnknownHandler)

	routes := k.Registry().Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, "manifest", routes[0].Source)
	assert.True(t, routes[1].Guarded)
	assert.Equal(t, "cmd:greet", routes[3].Verb)
	assert.Equal(t, "print a greeting", routes[3].Summary)

	ctx := context.Background()
	resp, err := k.DispatchHTTP(ctx, "GET", "/hello/ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello, ada\n", resp.Body)

	resp, err = k.DispatchArgs(ctx, []string{"app", "greet", "bob"})
	require.NoError(t, err)
	assert.Equal(t, "hi bob\n", resp.Body)
}

func TestGuards(t *testing.T) {
	k, _ := testKernel(t)
	as := func(name, role string) context.Context {
		return auth.WithUser(context.Background(), auth.User{Username: name, Role: auth.Role{Name: role}})
	}

	resp, _ := k.DispatchHTTP(context.Background(), "DELETE", "/items/1")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp, _ = k.DispatchHTTP(as("bob", "viewer"), "DELETE", "/items/1")
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp, _ = k.DispatchHTTP(as("bob", "ops"), "DELETE", "/items/1")
	assert.Equal(t, "removed 1\n", resp.Body)

	resp, _ = k.DispatchHTTP(as("root", "admin"), "DELETE", "/items/2")
	assert.Equal(t, "removed 2\n", resp.Body)

	resp, _ = k.DispatchHTTP(as("eve", ""), "GET", "/me")
	assert.Equal(t, "eve\n", resp.Body)
}

func TestGuardUsers(t *testing.T) {
	g := guardFor(manifestGuard("ada"), "admin")
	ok := func(name string) bool {
		_, pass := g(auth.WithUser(context.Background(), auth.User{Username: name}), route.Request{})
		return pass
	}
	assert.True(t, ok("ada"))
	assert.False(t, ok("bob"))
	assert.Nil(t, guardFor(manifestGuard(), "admin"))
}

func TestBuildRouter(t *testing.T) {
	k, _ := testKernel(t)
	m := metrics.New()
	h := BuildRouter(k, BuildDeps{
		Auth:    auth.New(auth.Config{DevBypass: true}, nil),
		Metrics: m,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello/world", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, world\n", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404\n", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Dev-User", "ada")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "ada\n", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "total_http_requests"))
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register("b", func() string { return "" }))
	require.NoError(t, c.Register("a", func() string { return "" }))
	assert.ErrorIs(t, c.Register("a", func() string { return "" }), ErrDuplicateHandler)
	assert.Error(t, c.Register("", func() {}))
	assert.Error(t, c.Register("x", "not a func"))
	assert.Equal(t, []string{"a", "b"}, c.Names())

	_, ok := c.Lookup("zzz")
	assert.False(t, ok)
}

func manifestGuard(users ...string) manifest.Guard { return manifest.Guard{Users: users} }
