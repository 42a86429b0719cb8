package version

import "strings"

// Bound is one edge of a Range.
type Bound struct {
	Version   Version
	Inclusive bool
}

// Range is a Maven version range expression: "[1.0,2.0)", "[1.0,]",
// "(,2.0)", "[1.0]" (exact).
type Range struct {
	Lower *Bound
	Upper *Bound
}

// ParseRange parses a Maven range string. It returns ok=false for a bare
// version, which is not a range.
func ParseRange(spec string) (Range, bool) {
	s := strings.TrimSpace(spec)
	if !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "(") {
		return Range{}, false
	}

	openInclusive := strings.HasPrefix(s, "[")
	closeInclusive := strings.HasSuffix(s, "]")
	inner := s[1 : len(s)-1]

	if lower, upper, found := strings.Cut(inner, ","); found {
		lower, upper = strings.TrimSpace(lower), strings.TrimSpace(upper)
		var r Range
		if lower != "" {
			r.Lower = &Bound{Version: Parse(lower), Inclusive: openInclusive}
		}
		if upper != "" {
			r.Upper = &Bound{Version: Parse(upper), Inclusive: closeInclusive}
		}
		return r, true
	}

	// Exact version: "[1.0]" means exactly 1.0.
	v := Parse(strings.TrimSpace(inner))
	return Range{
		Lower: &Bound{Version: v, Inclusive: true},
		Upper: &Bound{Version: v, Inclusive: true},
	}, true
}

// Contains reports whether v satisfies the range's bounds.
func (r Range) Contains(v Version) bool {
	if r.Lower != nil {
		c := v.Compare(r.Lower.Version)
		if r.Lower.Inclusive {
			if c < 0 {
				return false
			}
		} else if c <= 0 {
			return false
		}
	}
	if r.Upper != nil {
		c := v.Compare(r.Upper.Version)
		if r.Upper.Inclusive {
			if c > 0 {
				return false
			}
		} else if c >= 0 {
			return false
		}
	}
	return true
}
