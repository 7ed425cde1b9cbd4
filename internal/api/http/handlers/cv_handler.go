package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/resumekit/cv-service/internal/api/dto"
	"github.com/resumekit/cv-service/internal/auth"
	"github.com/resumekit/cv-service/internal/domain"
	"github.com/resumekit/cv-service/internal/service"
	apperrors "github.com/resumekit/cv-service/pkg/util"
)

// CVHandler serves the CV data endpoints.
type CVHandler struct {
	service *service.CVService
}

// NewCVHandler constructs handler.
func NewCVHandler(cvService *service.CVService) *CVHandler {
	return &CVHandler{service: cvService}
}

// GetOwn GET /api/cv.
func (h *CVHandler) GetOwn(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	cv, err := h.service.GetOwn(c.UserContext(), id.AccountID)
	if err != nil {
		return mapCVError(err)
	}
	return c.JSON(dto.NewCVResponse(cv))
}

// SaveOwn POST /api/cv. The target is always the caller's primary CV.
func (h *CVHandler) SaveOwn(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CVRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	content, err := req.ToDomain()
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	cv, err := h.service.SaveOwn(c.UserContext(), id.AccountID, content)
	if err != nil {
		return mapCVError(err)
	}
	return c.JSON(dto.NewCVResponse(cv))
}

// Get GET /api/cv/:id. Public.
func (h *CVHandler) Get(c *fiber.Ctx) error {
	cvID, err := cvIDParam(c)
	if err != nil {
		return err
	}
	cv, err := h.service.Get(c.UserContext(), cvID)
	if err != nil {
		return mapCVError(err)
	}
	return c.JSON(dto.NewCVResponse(cv))
}

// Share POST /api/cv/share.
func (h *CVHandler) Share(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OwnerID != "" {
		if err := auth.Authorize(id, req.OwnerID); err != nil {
			return err
		}
	}

	var content *domain.CV
	if !req.FromSaved {
		if err := dto.Validate(&req.CVRequest); err != nil {
			return err
		}
		if content, err = req.ToDomain(); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}

	snapshot, err := h.service.Share(c.UserContext(), id.AccountID, content)
	if err != nil {
		return mapCVError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.ShareResponse{ID: snapshot.ID})
}

// Delete DELETE /api/cv/:id. Only snapshots can be removed.
func (h *CVHandler) Delete(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	cvID, err := cvIDParam(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSnapshot(c.UserContext(), id.AccountID, cvID); err != nil {
		return mapCVError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// cvIDParam rejects ids that cannot exist before they reach the store.
func cvIDParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewNotFound("cv", nil)
	}
	return raw, nil
}

func mapCVError(err error) error {
	switch {
	case errors.Is(err, service.ErrCVNotFound):
		return apperrors.NewNotFound("cv", nil)
	case errors.Is(err, service.ErrNotOwner):
		return apperrors.NewForbidden("cv belongs to another account")
	case errors.Is(err, service.ErrPrimaryCV):
		return apperrors.NewValidationError("primary cv cannot be deleted", nil)
	default:
		return err
	}
}
