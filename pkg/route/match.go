package route

// Matches reports whether the request satisfies pattern p registered under verb v.
//
// Verbs must be equal. Without a wildcard the segment counts must be equal; a
// terminal wildcard accepts one or more remaining segments. Literals compare
// byte-for-byte and placeholders accept any non-empty segment.
func Matches(p Pattern, v Verb, r Request) bool {
	if v != r.Verb {
		return false
	}

	n := len(p.segs)
	if p.wildcard {
		if len(r.Path) < n {
			return false
		}
	} else if len(r.Path) != n {
		return false
	}

	for i, s := range p.segs {
		seg := r.Path[i]
		switch s.Kind {
		case Wildcard:
			return true
		case Placeholder:
			if seg == "" {
				return false
			}
		default:
			if seg != s.Value {
				return false
			}
		}
	}
	return true
}
