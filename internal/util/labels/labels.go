// Package labels builds and matches Hetzner Cloud label selectors.
//
// Directory lookups identify resources by equality selectors
// ("role=fleet-instance,service=web-svc"). The builder keeps the pair
// order given, so the same inputs always produce the same selector string
// and an existing selector target can be recognized verbatim.
package labels

import "strings"

// Selector builds an equality selector from alternating key, value pairs.
// It panics on an odd number of arguments; call sites pass literals.
func Selector(pairs ...string) string {
	if len(pairs)%2 != 0 {
		panic("labels: Selector requires key, value pairs")
	}
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(pairs[i])
		b.WriteByte('=')
		b.WriteString(pairs[i+1])
	}
	return b.String()
}

// Matches reports whether a label set satisfies an equality selector.
// Only "k=v" terms are supported; an empty selector matches everything.
func Matches(set map[string]string, selector string) bool {
	if selector == "" {
		return true
	}
	for term := range strings.SplitSeq(selector, ",") {
		key, want, ok := strings.Cut(strings.TrimSpace(term), "=")
		if !ok {
			return false
		}
		if set[key] != want {
			return false
		}
	}
	return true
}

// Merge combines label maps; later maps win on key collisions.
func Merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
