package route

import "strings"

// NormalizePath drops the query string and surrounding slashes.
// An empty result normalizes to "/".
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "/"
	}
	return "/" + path
}

// Segments splits a path into its slash-separated segments after normalization.
// The root path has no segments. Inner empty segments ("/a//b") are kept.
func Segments(path string) []string {
	path = NormalizePath(path)
	if path == "/" {
		return nil
	}
	return strings.Split(path[1:], "/")
}
