package gateway

import "strings"

// Policy classifies request paths as public or secured from an immutable
// set of public markers fixed at startup.
type Policy struct {
	markers []string
}

// NewPolicy copies the marker list so later mutation of the input slice
// cannot affect classification.
func NewPolicy(markers []string) *Policy {
	copied := make([]string, len(markers))
	copy(copied, markers)
	return &Policy{markers: copied}
}

// Secured reports whether the path requires an authorization check. A
// path is public when any configured marker appears in it as a
// substring. Substring containment, not segment or prefix matching: a
// secured path that merely embeds a marker inside a longer segment is
// classified public. Changing this to exact-segment matching alters
// which routes are reachable without a token and needs explicit sign-off
// first.
func (p *Policy) Secured(path string) bool {
	for _, marker := range p.markers {
		if strings.Contains(path, marker) {
			return false
		}
	}
	return true
}
