package gateway

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/observability"
)

// Filter is the single enforcement point between untrusted clients and
// the downstream services. Per request it composes the local routing
// decision with the remote authorize call into one allow/deny outcome.
type Filter struct {
	policy     *Policy
	authorizer Authorizer
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewFilter builds the enforcement middleware.
func NewFilter(policy *Policy, authorizer Authorizer, metrics *observability.Metrics, logger *zap.Logger) *Filter {
	return &Filter{policy: policy, authorizer: authorizer, metrics: metrics, logger: logger}
}

// Handle evaluates one request. Branch priority: public paths pass
// untouched; a secured path without an Authorization header is 401; a
// failed or uninterpretable authorize call is 403 (an infrastructure
// fault, deliberately distinct from rejected credentials); an explicit
// authenticated=false is 401. Denials carry an empty body. Every state
// is terminal, there is no retry.
func (f *Filter) Handle(c *fiber.Ctx) error {
	path := c.Path()

	if !f.policy.Secured(path) {
		f.metrics.RecordDecision(path, observability.DecisionAllowPublic)
		return c.Next()
	}

	rawToken := c.Get(fiber.HeaderAuthorization)
	if rawToken == "" {
		f.metrics.RecordDecision(path, observability.DecisionDenyMissingHeader)
		f.logger.Info("request denied", zap.String("path", path), zap.String("reason", "missing authorization header"))
		return c.SendStatus(http.StatusUnauthorized)
	}

	authorization, err := f.authorizer.Authorize(c.UserContext(), domain.AuthToken{JWT: rawToken})
	if err != nil {
		f.metrics.RecordDecision(path, observability.DecisionDenyUpstream)
		f.logger.Warn("request denied", zap.String("path", path), zap.String("reason", "authorize call failed"), zap.Error(err))
		return c.SendStatus(http.StatusForbidden)
	}

	if !authorization.Authenticated {
		f.metrics.RecordDecision(path, observability.DecisionDenyUnauthenticated)
		f.logger.Info("request denied", zap.String("path", path), zap.String("reason", "token rejected"))
		return c.SendStatus(http.StatusUnauthorized)
	}

	f.metrics.RecordDecision(path, observability.DecisionAllowAuthenticated)
	return c.Next()
}
