package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/identity"
	"github.com/spec-kit/auth-gateway/internal/token"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// AuthService is the only component that turns a credential into a token
// and the only one that combines token verification with role
// resolution. It holds no mutable state; the codec's key and TTL are
// fixed at startup.
type AuthService struct {
	lookup identity.Lookup
	codec  *token.Codec
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(lookup identity.Lookup, codec *token.Codec, logger *zap.Logger) *AuthService {
	return &AuthService{lookup: lookup, codec: codec, logger: logger}
}

// Authenticate verifies a credential and mints a token for its subject.
// Input validation happens before any identity lookup; a missing field
// never causes a network call.
func (s *AuthService) Authenticate(ctx context.Context, cred domain.Credential) (domain.AuthToken, error) {
	if cred.Email == "" || cred.Password == "" {
		return domain.AuthToken{}, apperrors.NewValidationError("email and password required", nil)
	}

	email := strings.ToLower(cred.Email)

	profile, err := s.lookup.SecurityProfile(ctx, email)
	if err != nil {
		return domain.AuthToken{}, s.mapLookupError(email, err)
	}

	if !profile.Enabled {
		return domain.AuthToken{}, apperrors.NewCredentialError("Account is disabled.")
	}

	if err := auth.ComparePassword(profile.PasswordHash, cred.Password); err != nil {
		return domain.AuthToken{}, apperrors.NewCredentialError("Invalid password.")
	}

	jwt, err := s.codec.Mint(profile.Email)
	if err != nil {
		return domain.AuthToken{}, apperrors.NewInternalError(err)
	}

	s.logger.Info("token minted", zap.String("subject", profile.Email))
	return domain.AuthToken{JWT: jwt}, nil
}

// Authorize verifies the token and resolves the subject's role.
// Verification strictly precedes the role lookup: a role is never
// resolved for an unverified token.
func (s *AuthService) Authorize(ctx context.Context, tok domain.AuthToken) (domain.Authorization, error) {
	if tok.JWT == "" {
		return domain.Authorization{}, apperrors.NewValidationError("token required", nil)
	}

	claims, err := s.codec.Verify(tok.JWT)
	if err != nil {
		return domain.Authorization{}, apperrors.NewInvalidToken(err)
	}

	subject := claims.Subject

	profile, err := s.lookup.SecurityProfile(ctx, subject)
	if err != nil {
		return domain.Authorization{}, s.mapLookupError(subject, err)
	}

	return domain.Authorization{
		SubjectID:     subject,
		Authenticated: true,
		Role:          profile.Role,
	}, nil
}

func (s *AuthService) mapLookupError(email string, err error) error {
	if errors.Is(err, identity.ErrNotFound) {
		return apperrors.NewSubjectUnknown(email)
	}
	return apperrors.NewUpstreamUnavailable("identity service", err)
}
