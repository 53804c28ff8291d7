package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spec-kit/auth-gateway/internal/domain"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

const passwordSpecials = "_-!@#$&*"

// InputValidator checks registration input against the account policy:
// a plausible email shape, a minimum-strength password and a known role.
type InputValidator struct {
	emailPattern *regexp.Regexp
}

// NewInputValidator compiles the validation patterns once.
func NewInputValidator() *InputValidator {
	return &InputValidator{
		emailPattern: regexp.MustCompile("^[a-zA-Z0-9_!#$%&'*+/=?`{|}~^.-]+@[a-zA-Z0-9.-]+$"),
	}
}

// ValidateNewAccount rejects invalid email, password or role with a
// ValidationError naming the offending field.
func (v *InputValidator) ValidateNewAccount(email, password string, role domain.Role) error {
	if !v.emailPattern.MatchString(email) {
		return apperrors.NewValidationError(
			fmt.Sprintf("the given email address (%s) is invalid", email), nil)
	}

	if !validPassword(password) {
		return apperrors.NewValidationError(
			"the password must be at least 6 characters long and contain a lower case letter, "+
				"an upper case letter, a number and one of: "+passwordSpecials, nil)
	}

	if role != domain.RoleUser && role != domain.RoleAdmin {
		return apperrors.NewValidationError(
			fmt.Sprintf("the given role (%s) is invalid", role), nil)
	}

	return nil
}

func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
