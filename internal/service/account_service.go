package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/repository"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// AccountService owns the identity records: registration, profile reads
// and account maintenance. The authentication service only ever reads
// from it through the security-profile endpoint.
type AccountService struct {
	accounts   repository.AccountRepository
	validator  *InputValidator
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.AccountRepository, bcryptCost int, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts:   accounts,
		validator:  NewInputValidator(),
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register validates input, hashes the password and stores a new
// enabled account under the lowercase email.
func (s *AccountService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.Account, error) {
	if err := s.validator.ValidateNewAccount(email, password, role); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(email)

	if _, err := s.accounts.GetByEmail(ctx, normalized); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": normalized})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: hash,
		Role:         role,
		Enabled:      true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("account registered", zap.String("email", account.Email), zap.String("role", string(account.Role)))
	return account, nil
}

// SecurityProfile resolves the credential material for an email.
func (s *AccountService) SecurityProfile(ctx context.Context, email string) (*domain.SecurityProfile, error) {
	account, err := s.get(ctx, email)
	if err != nil {
		return nil, err
	}
	return &domain.SecurityProfile{
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Enabled:      account.Enabled,
	}, nil
}

// Profile resolves the non-sensitive account data for an email.
func (s *AccountService) Profile(ctx context.Context, email string) (*domain.Account, error) {
	return s.get(ctx, email)
}

// Update replaces password, role and enabled flag for an existing
// account. The password is re-validated and re-hashed.
func (s *AccountService) Update(ctx context.Context, email, password string, role domain.Role, enabled bool) error {
	if err := s.validator.ValidateNewAccount(email, password, role); err != nil {
		return err
	}

	account, err := s.get(ctx, email)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	account.PasswordHash = hash
	account.Role = role
	account.Enabled = enabled
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}

	s.logger.Info("account updated", zap.String("email", account.Email))
	return nil
}

// Delete removes the account stored under the lowercase email.
func (s *AccountService) Delete(ctx context.Context, email string) error {
	normalized := strings.ToLower(email)
	if err := s.accounts.Delete(ctx, normalized); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"email": normalized})
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("account deleted", zap.String("email", normalized))
	return nil
}

func (s *AccountService) get(ctx context.Context, email string) (*domain.Account, error) {
	normalized := strings.ToLower(email)
	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"email": normalized})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}
