package demo

import (
	"context"
	"net/http"
	"testing"

	"github.com/joeydtaylor/steeze-kernel/pkg/core"
	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testKernel(t *testing.T) *kernel.Kernel {
	t.Helper()
	c := inject.New()
	inject.MustSupply(c, zaptest.NewLogger(t))
	inject.MustProvide[auth.User](c, auth.CurrentUser, inject.AsScoped())
	require.NoError(t, Provide(c))

	sink := &kernel.CollectSink{}
	d := kernel.NewDiscovery(c, sink)
	require.True(t, kernel.AddController[*HelloController](context.Background(), d))

	man, err := core.LoadConfig("../../manifest.toml")
	require.NoError(t, err)
	core.Discover(d, man, nil, "admin")
	require.Empty(t, sink.Errors())

	return kernel.New(d.Registry(), c)
}

func TestHelloController(t *testing.T) {
	k := testKernel(t)
	ctx := context.Background()

	resp, err := k.DispatchHTTP(ctx, http.MethodGet, "/hello/ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello, ada\n", resp.Body)

	resp, err = k.DispatchArgs(ctx, []string{"steeze-kernel", "greet", "bob"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, bob\n", resp.Body)

	resp, err = k.DispatchArgs(ctx, []string{"steeze-kernel", "greet"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world\n", resp.Body)

	resp, err = k.DispatchHTTP(ctx, http.MethodGet, "/stats")
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"greetings":2}`, resp.Body)
}

func TestManifestHandlers(t *testing.T) {
	k := testKernel(t)
	ctx := context.Background()

	resp, err := k.DispatchHTTP(ctx, http.MethodGet, "/files/a/b/c.txt?x=1")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c.txt\n", resp.Body)

	resp, err = k.DispatchArgs(ctx, []string{"steeze-kernel", "shout", "hi", "there"})
	require.NoError(t, err)
	assert.Equal(t, "HI THERE\n", resp.Body)
}

func TestManifestGuards(t *testing.T) {
	k := testKernel(t)
	anon := context.Background()

	resp, err := k.DispatchHTTP(anon, http.MethodGet, "/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	ada := auth.WithUser(anon, auth.User{Username: "ada", Role: auth.Role{Name: "greeter"}})
	resp, err = k.DispatchHTTP(ada, http.MethodGet, "/me")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ada","authenticationSource":{"provider":""},"role":{"name":"greeter"}}`, resp.Body)

	resp, err = k.DispatchHTTP(ada, http.MethodPost, "/wave/eve")
	require.NoError(t, err)
	assert.Equal(t, "Hello, eve o/\n", resp.Body)

	bob := auth.WithUser(anon, auth.User{Username: "bob", Role: auth.Role{Name: "viewer"}})
	resp, err = k.DispatchHTTP(bob, http.MethodPost, "/wave/eve")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	root := auth.WithUser(anon, auth.User{Username: "root", Role: auth.Role{Name: "admin"}})
	resp, err = k.DispatchHTTP(root, http.MethodPost, "/wave/eve")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}
