package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReq(t *testing.T, method, uri string) Request {
	t.Helper()
	r, err := NewHTTPRequest(method, uri)
	require.NoError(t, err)
	return r
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"///", "/"},
		{"hello", "/hello"},
		{"/hello/", "/hello"},
		{"/hello/world?x=1", "/hello/world"},
		{"/?q=1", "/"},
		{"/a//b/", "/a//b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "NormalizePath(%q)", tt.in)
	}
}

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments("/"))
	assert.Equal(t, []string{"a"}, Segments("/a"))
	assert.Equal(t, []string{"a", "", "b"}, Segments("/a//b"))
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("/users/{id}/files/*")
	require.NoError(t, err)
	assert.Equal(t, "/users/{id}/files/*", p.String())
	assert.Equal(t, 4, p.Len())
	assert.True(t, p.HasWildcard())
	assert.Equal(t, []Segment{
		{Kind: Literal, Value: "users"},
		{Kind: Placeholder, Value: "id"},
		{Kind: Literal, Value: "files"},
		{Kind: Wildcard},
	}, p.Segments())

	idx, ok := p.Placeholder("id")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = p.Placeholder("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"id"}, p.Placeholders())

	root, err := ParsePattern("")
	require.NoError(t, err)
	assert.Equal(t, "/", root.String())
	assert.Equal(t, 0, root.Len())
}

func TestParsePattern_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"/a/*/b", ErrWildcardNotTerminal},
		{"/a/{}", ErrEmptyPlaceholder},
		{"/a/{id", ErrMalformedPlaceholder},
		{"/a/{i{d}", ErrMalformedPlaceholder},
		{"/a/{id}/{id}", ErrDuplicatePlaceholder},
	}
	for _, tt := range tests {
		_, err := ParsePattern(tt.in)
		assert.ErrorIs(t, err, tt.want, "ParsePattern(%q)", tt.in)
	}
	assert.Panics(t, func() { MustParsePattern("/*/x") })
}

func TestParseMethod(t *testing.T) {
	for _, m := range []string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"} {
		v, err := ParseMethod(m)
		require.NoError(t, err)
		assert.Equal(t, m, v.Name)
		assert.True(t, v.IsHTTP())
	}
	v, err := ParseMethod(" get ")
	require.NoError(t, err)
	assert.Equal(t, Get, v)

	_, err = ParseMethod("BREW")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestNewCLIRequest(t *testing.T) {
	r, err := NewCLIRequest([]string{"prog", "greet", "Sam"})
	require.NoError(t, err)
	assert.Equal(t, Command("greet"), r.Verb)
	assert.Equal(t, []string{"greet"}, r.Path)
	assert.Equal(t, []string{"Sam"}, r.Args)

	_, err = NewCLIRequest([]string{"prog"})
	assert.ErrorIs(t, err, ErrNotEnoughArguments)
	_, err = NewCLIRequest([]string{"prog", " "})
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestMatches_Wildcard(t *testing.T) {
	p := MustParsePattern("/files/*")
	assert.True(t, Matches(p, Get, mustReq(t, "GET", "/files/a")))
	assert.True(t, Matches(p, Get, mustReq(t, "GET", "/files/a/b/c")))
	assert.False(t, Matches(p, Get, mustReq(t, "GET", "/files")))
	assert.False(t, Matches(p, Get, mustReq(t, "GET", "/other/a")))
}

func TestMatches_Placeholder(t *testing.T) {
	p := MustParsePattern("/users/{id}")
	assert.True(t, Matches(p, Get, mustReq(t, "GET", "/users/42")))
	assert.False(t, Matches(p, Get, mustReq(t, "GET", "/users/")))
	assert.False(t, Matches(p, Get, Request{Verb: Get, Path: []string{"users", ""}}))
	assert.False(t, Matches(p, Get, mustReq(t, "GET", "/users/42/x")))
}

func TestMatches_EmptyInnerSegmentRejectedByPlaceholder(t *testing.T) {
	p := MustParsePattern("/a/{x}/b")
	assert.False(t, Matches(p, Get, mustReq(t, "GET", "/a//b")))
	assert.True(t, Matches(p, Get, mustReq(t, "GET", "/a/1/b")))
}

func TestMatches_VerbGating(t *testing.T) {
	p := MustParsePattern("/a/b")
	assert.False(t, Matches(p, Post, mustReq(t, "GET", "/a/b")))
	assert.False(t, Matches(p, Get, mustReq(t, "POST", "/a/b")))

	// a command never matches an HTTP request with the same literal path
	cmd := CommandPattern("a")
	assert.False(t, Matches(cmd, Command("a"), mustReq(t, "GET", "/a")))
	r, err := NewCLIRequest([]string{"prog", "a"})
	require.NoError(t, err)
	assert.True(t, Matches(cmd, Command("a"), r))
	assert.False(t, Matches(MustParsePattern("/a"), Get, r))
}

func TestMatches_CountMismatch(t *testing.T) {
	patterns := []string{"/", "/a", "/a/b", "/{x}/{y}", "/a/{x}/c"}
	paths := []string{"/", "/a", "/a/b", "/a/b/c", "/a/b/c/d"}
	for _, ps := range patterns {
		p := MustParsePattern(ps)
		for _, path := range paths {
			r := mustReq(t, "GET", path)
			if p.Len() != len(r.Path) {
				assert.False(t, Matches(p, Get, r), "%s vs %s", ps, path)
			}
		}
	}
}

func TestMatches_Root(t *testing.T) {
	root := MustParsePattern("/")
	assert.True(t, Matches(root, Get, mustReq(t, "GET", "")))
	assert.True(t, Matches(root, Get, mustReq(t, "GET", "/?x=1")))
	assert.False(t, Matches(root, Get, mustReq(t, "GET", "/a")))
	assert.False(t, Matches(MustParsePattern("/*"), Get, mustReq(t, "GET", "/")))
}
