package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/observability"
	apperrors "github.com/resumekit/cv-service/pkg/util"
)

// ForwardedIdentityHeader is never trusted from clients; the Gate removes it
// from every request before routing.
const ForwardedIdentityHeader = "user"

// invalidTokenMessage is shared by the missing and the invalid token cases.
const invalidTokenMessage = "invalid authentication token"

// Gate authenticates requests according to the route table and attaches the
// caller identity to the request context.
type Gate struct {
	tokens     *TokenManager
	routes     RouteTable
	cookieName string
	loginPath  string
	logger     *zap.Logger
}

// GateConfig bundles Gate settings.
type GateConfig struct {
	CookieName string
	LoginPath  string
	Routes     RouteTable
}

// NewGate constructs the access gate.
func NewGate(tokens *TokenManager, cfg GateConfig, logger *zap.Logger) *Gate {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Routes == nil {
		cfg.Routes = DefaultRoutes()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		tokens:     tokens,
		routes:     cfg.Routes,
		cookieName: cfg.CookieName,
		loginPath:  cfg.LoginPath,
		logger:     logger,
	}
}

// Handle is the fiber middleware.
func (g *Gate) Handle(c *fiber.Ctx) error {
	c.Request().Header.Del(ForwardedIdentityHeader)

	class := g.routes.Classify(c.Method(), c.Path())
	if class.Access != AccessProtected {
		return c.Next()
	}

	token := c.Cookies(g.cookieName)
	if token == "" {
		return g.reject(c, class)
	}

	claims, err := g.tokens.ParseToken(token)
	if err != nil {
		g.logger.Debug("session rejected", zap.String("path", c.Path()), zap.Error(err))
		return g.reject(c, class)
	}

	c.SetUserContext(WithIdentity(c.UserContext(), claims.Identity()))
	return c.Next()
}

func (g *Gate) reject(c *fiber.Ctx, class Classification) error {
	c.Locals(observability.RouteLocalKey, class.Name)
	if class.Tree == TreePage {
		return c.Redirect(g.loginPath, http.StatusFound)
	}
	return apperrors.NewUnauthorized(invalidTokenMessage)
}
