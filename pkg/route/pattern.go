// pkg/route/pattern.go
package route

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	Literal Kind = iota
	Placeholder
	Wildcard
)

func (k Kind) String() string {
	switch k {
	case Placeholder:
		return "placeholder"
	case Wildcard:
		return "wildcard"
	default:
		return "literal"
	}
}

// Segment is one element of a Pattern. Value holds the literal text or the
// placeholder name; it is empty for a wildcard.
type Segment struct {
	Kind  Kind
	Value string
}

// Pattern is a parsed route template such as "/users/{id}" or "/files/*".
type Pattern struct {
	raw      string
	segs     []Segment
	wildcard bool
}

// ParsePattern parses a slash-delimited template. "{name}" marks a placeholder
// and "*" a wildcard, which must be the final segment.
func ParsePattern(s string) (Pattern, error) {
	raw := NormalizePath(s)
	parts := Segments(raw)
	p := Pattern{raw: raw, segs: make([]Segment, 0, len(parts))}
	seen := make(map[string]struct{}, len(parts))

	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return Pattern{}, fmt.Errorf("%w: %q", ErrWildcardNotTerminal, s)
			}
			p.segs = append(p.segs, Segment{Kind: Wildcard})
			p.wildcard = true

		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := strings.TrimSpace(part[1 : len(part)-1])
			if name == "" {
				return Pattern{}, fmt.Errorf("%w: %q", ErrEmptyPlaceholder, s)
			}
			if strings.ContainsAny(name, "{}") {
				return Pattern{}, fmt.Errorf("%w: %q", ErrMalformedPlaceholder, part)
			}
			if _, dup := seen[name]; dup {
				return Pattern{}, fmt.Errorf("%w: %q in %q", ErrDuplicatePlaceholder, name, s)
			}
			seen[name] = struct{}{}
			p.segs = append(p.segs, Segment{Kind: Placeholder, Value: name})

		case strings.ContainsAny(part, "{}"):
			return Pattern{}, fmt.Errorf("%w: %q", ErrMalformedPlaceholder, part)

		default:
			p.segs = append(p.segs, Segment{Kind: Literal, Value: part})
		}
	}
	return p, nil
}

// MustParsePattern is ParsePattern for static templates; it panics on error.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// CommandPattern is the single-literal pattern used by CLI handlers.
func CommandPattern(name string) Pattern {
	return Pattern{raw: name, segs: []Segment{{Kind: Literal, Value: name}}}
}

func (p Pattern) String() string { return p.raw }

func (p Pattern) Len() int { return len(p.segs) }

func (p Pattern) HasWildcard() bool { return p.wildcard }

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segs))
	copy(out, p.segs)
	return out
}

// Placeholder reports the segment index of the named placeholder.
func (p Pattern) Placeholder(name string) (int, bool) {
	for i, s := range p.segs {
		if s.Kind == Placeholder && s.Value == name {
			return i, true
		}
	}
	return -1, false
}

// Placeholders lists placeholder names in segment order.
func (p Pattern) Placeholders() []string {
	var names []string
	for _, s := range p.segs {
		if s.Kind == Placeholder {
			names = append(names, s.Value)
		}
	}
	return names
}
