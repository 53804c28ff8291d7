package gateway

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/config"
)

// Forwarder relays allowed requests to the target service matching the
// longest configured path prefix. Method, path, headers (including
// Authorization) and body pass through unchanged.
type Forwarder struct {
	routes []config.RouteTarget
	logger *zap.Logger
}

// NewForwarder orders routes longest-prefix-first so the most specific
// target wins.
func NewForwarder(routes []config.RouteTarget, logger *zap.Logger) *Forwarder {
	ordered := make([]config.RouteTarget, len(routes))
	copy(ordered, routes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) > len(ordered[j].Prefix)
	})
	return &Forwarder{routes: ordered, logger: logger}
}

// Handle proxies the request to its resolved target, or answers 502 when
// no route matches.
func (fw *Forwarder) Handle(c *fiber.Ctx) error {
	path := c.Path()
	for _, route := range fw.routes {
		if strings.HasPrefix(path, route.Prefix) {
			if err := proxy.Do(c, route.URL+c.OriginalURL()); err != nil {
				fw.logger.Warn("forward failed",
					zap.String("path", path), zap.String("target", route.URL), zap.Error(err))
				return c.SendStatus(fiber.StatusBadGateway)
			}
			return nil
		}
	}

	fw.logger.Info("no route for path", zap.String("path", path))
	return c.SendStatus(fiber.StatusBadGateway)
}
