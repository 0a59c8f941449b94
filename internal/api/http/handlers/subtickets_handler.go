package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/subticket"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// SubticketsHandler manages parent/child link endpoints.
type SubticketsHandler struct {
	manager *subticket.Manager
}

// NewSubticketsHandler constructs handler.
func NewSubticketsHandler(manager *subticket.Manager) *SubticketsHandler {
	return &SubticketsHandler{manager: manager}
}

// CreateLink POST /tickets/:ref/children.
func (h *SubticketsHandler) CreateLink(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	var req dto.LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if strings.TrimSpace(req.Child) == "" {
		return apperrors.NewInvalidInput("child reference required", nil)
	}

	parentID, err := h.manager.ResolveTicketRef(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	childID, err := h.manager.ResolveTicketRef(c.UserContext(), strings.TrimSpace(req.Child))
	if err != nil {
		return err
	}
	if err := h.manager.CreateLink(c.UserContext(), cred, parentID, childID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// UnlinkChild DELETE /tickets/:ref/parent.
func (h *SubticketsHandler) UnlinkChild(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	childID, err := h.manager.ResolveTicketRef(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	if err := h.manager.UnlinkChild(c.UserContext(), cred, childID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetParent GET /tickets/:ref/parent.
func (h *SubticketsHandler) GetParent(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	childID, err := h.manager.ResolveTicketRef(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	parent, err := h.manager.GetParent(c.UserContext(), cred, childID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": parent})
}

// GetList GET /tickets/:ref/children.
func (h *SubticketsHandler) GetList(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	parentID, err := h.manager.ResolveTicketRef(c.UserContext(), c.Params("ref"))
	if err != nil {
		return err
	}
	children, err := h.manager.GetList(c.UserContext(), cred, parentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": children})
}
