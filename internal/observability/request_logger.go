package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RouteLocalKey names the route a request was aimed at when it is answered
// before routing, such as a rejected session.
const RouteLocalKey = "observability.route"

// unmatchedRoute collects every request that reached no route.
const unmatchedRoute = "unmatched"

// RouteKey returns a bounded metric key for the request: the matched route
// pattern, a name left by earlier middleware, or the unmatched bucket.
// Raw paths are never used.
func RouteKey(c *fiber.Ctx) string {
	if name, ok := c.Locals(RouteLocalKey).(string); ok && name != "" {
		return name
	}
	if route := c.Route().Path; route != "" && route != "/" {
		return route
	}
	return unmatchedRoute
}

// RequestLogger writes one structured line per request and feeds the
// request counters keyed by RouteKey.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		route := RouteKey(c)
		metrics.RecordRequest(route, c.Method(), status, latency)

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
