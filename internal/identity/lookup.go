package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// ErrNotFound means no account exists for the given email.
var ErrNotFound = errors.New("account not found")

// ErrUnavailable means the identity service could not be reached or its
// answer could not be interpreted.
var ErrUnavailable = errors.New("identity service unavailable")

// Lookup resolves an email to credential and role material. The
// authentication service consumes this capability; production traffic
// goes through HTTPLookup while tests substitute an in-memory double.
type Lookup interface {
	SecurityProfile(ctx context.Context, email string) (*domain.SecurityProfile, error)
}

// securityProfileDTO mirrors the identity service's security endpoint
// body. The password field carries the bcrypt hash.
type securityProfileDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// HTTPLookup is the network-backed Lookup implementation.
type HTTPLookup struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPLookup builds a lookup client against the identity service.
func NewHTTPLookup(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPLookup {
	return &HTTPLookup{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SecurityProfile fetches credential material for the given email.
func (l *HTTPLookup) SecurityProfile(ctx context.Context, email string) (*domain.SecurityProfile, error) {
	endpoint := fmt.Sprintf("%s/api/user/security/%s", l.baseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("identity lookup failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		l.logger.Warn("identity lookup unexpected status",
			zap.String("email", email), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var dto securityProfileDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &domain.SecurityProfile{
		Email:        dto.Email,
		PasswordHash: dto.Password,
		Role:         domain.Role(dto.Role),
		Enabled:      dto.Enabled,
	}, nil
}
