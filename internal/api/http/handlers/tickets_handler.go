package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/query"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket read, update, delete, search, and stats.
type TicketsHandler struct {
	service *service.TicketService
	engine  *query.Engine
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, engine *query.Engine) *TicketsHandler {
	return &TicketsHandler{service: ticketService, engine: engine}
}

// GetTicket GET /tickets/:ref.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), cred, c.Params("ref"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateTicket PATCH /tickets/:ref.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	input := service.UpdateInput{
		Subject:    req.Subject,
		Department: req.Department,
		Topic:      req.Topic,
		Status:     req.Status,
		SLA:        req.SLA,
		Staff:      req.Staff,
		Parent:     req.Parent,
		DueDate:    req.DueDate,
	}
	if req.Note != nil {
		input.Note = &service.NoteInput{
			Title:  req.Note.Title,
			Body:   req.Note.Body,
			Format: req.Note.Format,
		}
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), cred, c.Params("ref"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// DeleteTicket DELETE /tickets/:ref.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	if err := h.service.DeleteTicket(c.UserContext(), cred, c.Params("ref")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search GET /tickets.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	criteria := query.Criteria{
		Subject:    c.Query("subject"),
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Limit:      parseInt(c.Query("limit"), 0),
		Offset:     parseInt(c.Query("offset"), 0),
		Sort:       c.Query("sort"),
	}
	results, err := h.engine.Search(c.UserContext(), cred, criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": results})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	cred, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("credential required")
	}
	snapshot, err := h.engine.Stats(c.UserContext(), cred)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
