package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/resumekit/cv-service/internal/api/dto"
	"github.com/resumekit/cv-service/internal/auth"
	"github.com/resumekit/cv-service/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageHandler renders the server-side HTML pages.
type PageHandler struct {
	cvs *service.CVService
}

// NewPageHandler constructs handler.
func NewPageHandler(cvService *service.CVService) *PageHandler {
	return &PageHandler{cvs: cvService}
}

type cvPage struct {
	Title  string
	CV     *dto.CVResponse
	Owner  bool
	Notice string
}

// Login GET /login.
func (h *PageHandler) Login(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "login.html", cvPage{Title: "Sign in"})
}

// OwnCV GET /cv. The Gate redirects to /login without a session.
func (h *PageHandler) OwnCV(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return c.Redirect("/login", http.StatusFound)
	}

	cv, err := h.cvs.GetOwn(c.UserContext(), id.AccountID)
	if errors.Is(err, service.ErrCVNotFound) {
		return render(c, http.StatusOK, "cv.html", cvPage{Title: "My CV", Owner: true, Notice: "No CV saved yet."})
	}
	if err != nil {
		return err
	}
	resp := dto.NewCVResponse(cv)
	return render(c, http.StatusOK, "cv.html", cvPage{Title: cv.PersonalInfo.FullName, CV: &resp, Owner: true})
}

// PublicCV GET /cv/:id.
func (h *PageHandler) PublicCV(c *fiber.Ctx) error {
	notFound := cvPage{Title: "Not found", Notice: "This CV does not exist or was removed."}

	cvID := c.Params("id")
	if _, err := uuid.Parse(cvID); err != nil {
		return render(c, http.StatusNotFound, "cv.html", notFound)
	}
	cv, err := h.cvs.Get(c.UserContext(), cvID)
	if errors.Is(err, service.ErrCVNotFound) {
		return render(c, http.StatusNotFound, "cv.html", notFound)
	}
	if err != nil {
		return err
	}
	resp := dto.NewCVResponse(cv)
	return render(c, http.StatusOK, "cv.html", cvPage{Title: cv.PersonalInfo.FullName, CV: &resp})
}

func render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
