package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resumekit/cv-service/internal/domain"
	apperrors "github.com/resumekit/cv-service/pkg/util"
)

// RequireIdentity resolves the caller attached by the Gate or fails with
// 401. Handlers use it instead of trusting anything from the request.
func RequireIdentity(c *fiber.Ctx) (domain.Identity, error) {
	id, ok := IdentityFromContext(c.UserContext())
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized(invalidTokenMessage)
	}
	return id, nil
}

// Authorize fails with 403 unless the caller owns the resource.
func Authorize(id domain.Identity, ownerID string) error {
	if id.AccountID == "" || ownerID == "" || id.AccountID != ownerID {
		return apperrors.NewForbidden("resource belongs to another account")
	}
	return nil
}
