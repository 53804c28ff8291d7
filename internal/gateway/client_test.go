package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

func newAuthBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestAuthClientAuthorize(t *testing.T) {
	t.Parallel()

	t.Run("decodes a successful authorization", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/authorize" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			var req struct {
				JWT string `json:"jwt"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			if req.JWT != "header.payload.signature" {
				t.Errorf("jwt = %q, want the raw header value", req.JWT)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"subjectId":     "batman@waynecorp.com",
				"authenticated": true,
				"role":          "ADMIN",
			})
		})

		client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
		got, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "header.payload.signature"})
		if err != nil {
			t.Fatalf("Authorize() returned error: %v", err)
		}
		if got.SubjectID != "batman@waynecorp.com" {
			t.Errorf("SubjectID = %q, want %q", got.SubjectID, "batman@waynecorp.com")
		}
		if !got.Authenticated {
			t.Error("Authenticated = false, want true")
		}
		if got.Role != domain.RoleAdmin {
			t.Errorf("Role = %q, want %q", got.Role, domain.RoleAdmin)
		}
	})

	t.Run("treats a token rejection as unauthenticated, not an error", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{"TOKEN_INVALID", "VALIDATION_FAILED", "CREDENTIAL_REJECTED"} {
			backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": code, "message": "rejected"},
				})
			})

			client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
			got, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "expired.token.here"})
			if err != nil {
				t.Fatalf("Authorize() with code %s returned error: %v", code, err)
			}
			if got.Authenticated {
				t.Errorf("Authenticated = true for code %s, want false", code)
			}
		}
	})

	t.Run("maps other client-error codes to unavailability", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "UPSTREAM_UNAVAILABLE", "message": "identity down"},
			})
		})

		client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
		if _, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "some.token.here"}); !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
	})

	t.Run("maps server errors to unavailability", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
		if _, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "some.token.here"}); !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
	})

	t.Run("maps an uninterpretable success body to unavailability", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		})

		client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
		if _, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "some.token.here"}); !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
	})

	t.Run("maps an unreachable service to unavailability", func(t *testing.T) {
		t.Parallel()

		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		backend.Close()

		client := NewAuthClient(backend.URL, time.Second, zap.NewNop())
		if _, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "some.token.here"}); !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
	})

	t.Run("honors the bounded timeout", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		})

		client := NewAuthClient(backend.URL, 50*time.Millisecond, zap.NewNop())
		start := time.Now()
		_, err := client.Authorize(context.Background(), domain.AuthToken{JWT: "some.token.here"})
		if !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
		if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
			t.Errorf("Authorize() took %v, timeout not applied", elapsed)
		}
	})

	t.Run("cancels with the caller's context", func(t *testing.T) {
		t.Parallel()

		backend := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server arms its background read and
			// cancels r.Context() when the client disconnects.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(30 * time.Millisecond)
			cancel()
		}()

		client := NewAuthClient(backend.URL, 5*time.Second, zap.NewNop())
		if _, err := client.Authorize(ctx, domain.AuthToken{JWT: "some.token.here"}); !errors.Is(err, ErrAuthServiceUnavailable) {
			t.Errorf("Authorize() error = %v, want ErrAuthServiceUnavailable", err)
		}
	})
}
