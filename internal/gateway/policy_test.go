package gateway

import "testing"

func TestPolicySecured(t *testing.T) {
	t.Parallel()

	policy := NewPolicy([]string{"/authenticate", "/user/new", "/health", "/metrics"})

	tests := []struct {
		name    string
		path    string
		secured bool
	}{
		{name: "authenticate endpoint is public", path: "/api/authenticate", secured: false},
		{name: "registration endpoint is public", path: "/api/user/new", secured: false},
		{name: "health probe is public", path: "/health/live", secured: false},
		{name: "metrics endpoint is public", path: "/metrics", secured: false},
		{name: "post listing is secured", path: "/api/post/pages/0", secured: true},
		{name: "profile read is secured", path: "/api/user/profile/batman%40waynecorp.com", secured: true},
		{name: "authorize endpoint is secured", path: "/api/authorize", secured: true},
		{name: "root is secured", path: "/", secured: true},

		// Substring containment: a longer path embedding a marker is
		// classified public even though it names a different resource.
		{name: "path embedding a public marker is public", path: "/api/user/new/confirm", secured: false},
		{name: "marker anywhere in the path wins", path: "/internal/health-report/private", secured: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := policy.Secured(tt.path); got != tt.secured {
				t.Errorf("Secured(%q) = %v, want %v", tt.path, got, tt.secured)
			}
		})
	}
}

func TestPolicyWithoutMarkers(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(nil)
	if !policy.Secured("/anything") {
		t.Error("Secured() = false with no markers configured, want true")
	}
}

func TestPolicyCopiesMarkers(t *testing.T) {
	t.Parallel()

	markers := []string{"/public"}
	policy := NewPolicy(markers)
	markers[0] = "/everything"

	if policy.Secured("/public/page") {
		t.Error("Secured(/public/page) = true, marker list was not copied")
	}
	if !policy.Secured("/everything") {
		t.Error("Secured(/everything) = false, mutation of the input leaked in")
	}
}
