package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-service/internal/api/dto"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository"
	"github.com/spec-kit/wellness-service/internal/service"
)

// GoalsHandler manages goal endpoints for the goal owner.
type GoalsHandler struct {
	service *service.GoalService
}

// NewGoalsHandler constructs handler.
func NewGoalsHandler(goalService *service.GoalService) *GoalsHandler {
	return &GoalsHandler{service: goalService}
}

// Create POST /api/goals.
func (h *GoalsHandler) Create(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	goal, err := h.service.Create(c.UserContext(), principal.Caller, service.GoalCreateInput{
		Type:      req.Type,
		Title:     req.Title,
		Target:    req.Target,
		Unit:      req.Unit,
		Current:   req.Current,
		StartDate: req.StartDate.Ptr(),
		EndDate:   req.EndDate.Ptr(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dataResponse(dto.NewGoalResponse(goal)))
}

// List GET /api/goals.
func (h *GoalsHandler) List(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var filter repository.GoalFilter
	if status := c.Query("status"); status != "" {
		s := domain.GoalStatus(status)
		filter.Status = &s
	}
	if goalType := c.Query("type"); goalType != "" {
		t := domain.GoalType(goalType)
		filter.Type = &t
	}

	goals, err := h.service.List(c.UserContext(), principal.Caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(listResponse(dto.NewGoalResponses(goals)))
}

// Stats GET /api/goals/stats.
func (h *GoalsHandler) Stats(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.UserContext(), principal.Caller)
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(stats))
}

// Get GET /api/goals/:id.
func (h *GoalsHandler) Get(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	goal, err := h.service.Get(c.UserContext(), principal.Caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(dto.NewGoalResponse(goal)))
}

// Update PUT /api/goals/:id.
func (h *GoalsHandler) Update(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	goal, err := h.service.Update(c.UserContext(), principal.Caller, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(dto.NewGoalResponse(goal)))
}

// Delete DELETE /api/goals/:id.
func (h *GoalsHandler) Delete(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.Caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "goal deleted", "data": nil})
}
