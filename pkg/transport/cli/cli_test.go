package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-kernel/pkg/codec"
	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpen(t *testing.T) (Open, *int) {
	t.Helper()
	d := kernel.NewDiscovery(inject.New(), nil)
	d.Func("test", func(r *kernel.Routes) {
		r.Get("/hello/{name}", func(name string) string { return "Hello, " + name }, "name")
		r.Command("greet", func(name *string) string {
			if name == nil {
				return "Hello, stranger"
			}
			return "Hello, " + *name
		}, "name")
		r.Command("join", func(parts ...string) string { return strings.Join(parts, "+") })
	})
	k := kernel.New(d.Registry(), d.Container())

	opened := 0
	return func() (Dispatcher, error) {
		opened++
		return k, nil
	}, &opened
}

func run(t *testing.T, open Open, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New("prog", open, nil)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDispatchCommand(t *testing.T) {
	open, _ := testOpen(t)

	out, err := run(t, open, "greet", "ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello, ada\n", out)

	out, err = run(t, open, "greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello, stranger\n", out)

	out, err = run(t, open, "join", "a", "--b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a+--b+c\n", out)
}

func TestDispatchFallbacks(t *testing.T) {
	open, _ := testOpen(t)

	out, err := run(t, open, "nope")
	require.NoError(t, err)
	assert.Equal(t, "No command found.\n", out)

	out, err = run(t, open)
	require.NoError(t, err)
	assert.Equal(t, "Not enough arguments.\n", out)
}

func TestRoutesText(t *testing.T) {
	open, _ := testOpen(t)

	out, err := run(t, open, "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "VERB"))
	assert.Contains(t, lines[1], "/hello/{name}")
	assert.Contains(t, lines[2], "cmd:greet")
}

func TestRoutesJSON(t *testing.T) {
	open, _ := testOpen(t)

	out, err := run(t, open, "routes", "--json")
	require.NoError(t, err)

	var routes []kernel.RouteInfo
	require.NoError(t, codec.JSONStrict.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 3)
	assert.Equal(t, "GET", routes[0].Verb)
	assert.Equal(t, []string{"name string"}, routes[0].Params)
	assert.Equal(t, "test", routes[0].Source)
}

func TestServeSubcommand(t *testing.T) {
	open, opened := testOpen(t)
	served := false
	cmd := New("prog", open, func(context.Context) error {
		served = true
		return nil
	})
	cmd.SetArgs([]string{"serve"})
	require.NoError(t, cmd.Execute())
	assert.True(t, served)
	assert.Zero(t, *opened)
}

func TestOpenError(t *testing.T) {
	boom := errors.New("boom")
	_, err := run(t, func() (Dispatcher, error) { return nil, boom }, "greet")
	assert.ErrorIs(t, err, boom)
}

func TestReserveCommands(t *testing.T) {
	sink := &kernel.CollectSink{}
	d := kernel.NewDiscovery(inject.New(), sink)
	ReserveCommands(d)
	d.Func("test", func(r *kernel.Routes) {
		for _, name := range Reserved {
			r.Command(name, func() string { return "hidden" })
		}
		r.Command("status", func() string { return "up" })
	})

	require.Len(t, sink.Errors(), len(Reserved))
	for _, err := range sink.Errors() {
		assert.ErrorIs(t, err, kernel.ErrReserved)
	}
	k := kernel.New(d.Registry(), d.Container())
	open := func() (Dispatcher, error) { return k, nil }

	out, err := run(t, open, "status")
	require.NoError(t, err)
	assert.Equal(t, "up\n", out)

	out, err = run(t, open, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "cmd:status")
	assert.NotContains(t, out, "hidden")
}
