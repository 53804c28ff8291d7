package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// ErrAuthServiceUnavailable means the authorize call could not complete:
// unreachable service, timeout, malformed response, or an unexpected
// status. The filter maps it to 403.
var ErrAuthServiceUnavailable = errors.New("authentication service unavailable")

// Authorizer is the gateway's view of the authentication service's
// authorize operation. Production traffic goes through AuthClient; tests
// substitute a double.
type Authorizer interface {
	Authorize(ctx context.Context, token domain.AuthToken) (domain.Authorization, error)
}

// AuthClient calls the authentication service over HTTP with a bounded
// timeout. Requests are tied to the caller's context so a client
// disconnect cancels the outstanding call.
type AuthClient struct {
	authorizeURL string
	timeout      time.Duration
	client       *http.Client
	logger       *zap.Logger
}

// NewAuthClient builds a client against the authentication service base URL.
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AuthClient {
	return &AuthClient{
		authorizeURL: baseURL + "/api/authorize",
		timeout:      timeout,
		client:       &http.Client{},
		logger:       logger,
	}
}

type authorizeRequest struct {
	JWT string `json:"jwt"`
}

type authorizeResponse struct {
	SubjectID     string `json:"subjectId"`
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Authorize posts the token for verification. A rejected token (invalid
// signature, expiry, missing value) comes back as an unauthenticated
// Authorization rather than an error; only transport and
// infrastructure-level failures produce ErrAuthServiceUnavailable.
func (c *AuthClient) Authorize(ctx context.Context, token domain.AuthToken) (domain.Authorization, error) {
	body, err := json.Marshal(authorizeRequest{JWT: token.JWT})
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authorizeURL, bytes.NewReader(body))
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("authorize call failed", zap.Error(err))
		return domain.Authorization{}, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var decoded authorizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return domain.Authorization{}, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
		}
		return domain.Authorization{
			SubjectID:     decoded.SubjectID,
			Authenticated: decoded.Authenticated,
			Role:          domain.Role(decoded.Role),
		}, nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var decoded errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && tokenRejected(decoded.Error.Code) {
			return domain.Authorization{Authenticated: false}, nil
		}
	}

	c.logger.Warn("authorize call unexpected status", zap.Int("status", resp.StatusCode))
	return domain.Authorization{}, fmt.Errorf("%w: status %d", ErrAuthServiceUnavailable, resp.StatusCode)
}

// tokenRejected distinguishes "this token is bad" answers from
// infrastructure failures that happen to share a 4xx status.
func tokenRejected(code string) bool {
	switch code {
	case "TOKEN_INVALID", "VALIDATION_FAILED", "CREDENTIAL_REJECTED":
		return true
	}
	return false
}
