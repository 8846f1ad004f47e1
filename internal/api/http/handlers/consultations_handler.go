package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-service/internal/api/dto"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/service"
)

// ConsultationsHandler manages consultation endpoints.
type ConsultationsHandler struct {
	service *service.ConsultationService
}

// NewConsultationsHandler constructs handler.
func NewConsultationsHandler(consultationService *service.ConsultationService) *ConsultationsHandler {
	return &ConsultationsHandler{service: consultationService}
}

// Book POST /api/consultations.
func (h *ConsultationsHandler) Book(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.BookConsultationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	consultation, err := h.service.Book(c.UserContext(), principal.Caller, service.BookInput{
		ScheduledAt: req.Date.Ptr(),
		Type:        req.Type,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "consultation booked",
		"data":    dto.NewConsultationResponse(consultation),
	})
}

// ListMine GET /api/consultations.
func (h *ConsultationsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListMine(c.UserContext(), principal.Caller)
	if err != nil {
		return err
	}
	return c.JSON(listResponse(dto.NewConsultationResponses(items)))
}

// ListAll GET /api/consultations/all.
func (h *ConsultationsHandler) ListAll(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	in := service.ConsultationListInput{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}
	if status := c.Query("status"); status != "" {
		s := domain.ConsultationStatus(status)
		in.Status = &s
	}

	page, err := h.service.ListAll(c.UserContext(), principal.Caller, in)
	if err != nil {
		return err
	}
	items := dto.NewConsultationResponses(page.Items)
	return c.JSON(fiber.Map{
		"results":    len(items),
		"pagination": page.Pagination,
		"data":       items,
	})
}

// Get GET /api/consultations/:id.
func (h *ConsultationsHandler) Get(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	consultation, err := h.service.Get(c.UserContext(), principal.Caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(dto.NewConsultationResponse(consultation)))
}

// Update PUT /api/consultations/:id.
func (h *ConsultationsHandler) Update(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateConsultationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	consultation, err := h.service.Update(c.UserContext(), principal.Caller, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(dto.NewConsultationResponse(consultation)))
}

// Delete DELETE /api/consultations/:id.
func (h *ConsultationsHandler) Delete(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.Caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "consultation deleted", "data": nil})
}
