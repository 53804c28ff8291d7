package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

func TestHTTPLookupSecurityProfile(t *testing.T) {
	t.Parallel()

	t.Run("decodes the security profile", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/user/security/batman@waynecorp.com" {
				t.Errorf("path = %q, want the security endpoint", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"email":    "batman@waynecorp.com",
				"password": "$2a$04$somebcrypthashvalue",
				"role":     "ADMIN",
				"enabled":  true,
			})
		}))
		t.Cleanup(server.Close)

		lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
		profile, err := lookup.SecurityProfile(context.Background(), "batman@waynecorp.com")
		if err != nil {
			t.Fatalf("SecurityProfile() returned error: %v", err)
		}
		if profile.Email != "batman@waynecorp.com" {
			t.Errorf("Email = %q, want %q", profile.Email, "batman@waynecorp.com")
		}
		if profile.Role != domain.RoleAdmin {
			t.Errorf("Role = %q, want %q", profile.Role, domain.RoleAdmin)
		}
		if !profile.Enabled {
			t.Error("Enabled = false, want true")
		}
		if profile.PasswordHash != "$2a$04$somebcrypthashvalue" {
			t.Errorf("PasswordHash = %q, want the password field", profile.PasswordHash)
		}
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
		if _, err := lookup.SecurityProfile(context.Background(), "nobody@nowhere.org"); !errors.Is(err, ErrNotFound) {
			t.Errorf("SecurityProfile() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("maps unexpected statuses to ErrUnavailable", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
			if _, err := lookup.SecurityProfile(context.Background(), "batman@waynecorp.com"); !errors.Is(err, ErrUnavailable) {
				t.Errorf("SecurityProfile() with status %d: error = %v, want ErrUnavailable", status, err)
			}
			server.Close()
		}
	})

	t.Run("maps a garbled body to ErrUnavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("definitely not json"))
		}))
		t.Cleanup(server.Close)

		lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
		if _, err := lookup.SecurityProfile(context.Background(), "batman@waynecorp.com"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("SecurityProfile() error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("maps an unreachable service to ErrUnavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
		if _, err := lookup.SecurityProfile(context.Background(), "batman@waynecorp.com"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("SecurityProfile() error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("escapes the email into the path", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"email": "a+b@c.d", "password": "h", "role": "USER", "enabled": true})
		}))
		t.Cleanup(server.Close)

		lookup := NewHTTPLookup(server.URL, time.Second, zap.NewNop())
		if _, err := lookup.SecurityProfile(context.Background(), "a+b@c.d"); err != nil {
			t.Fatalf("SecurityProfile() returned error: %v", err)
		}
		if gotPath != "/api/user/security/a+b@c.d" && gotPath != "/api/user/security/a%2Bb@c.d" {
			t.Errorf("request path = %q, email not carried in the path", gotPath)
		}
	})
}
