package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-service/internal/auth"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

func principalFrom(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("not authorized")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}

func dataResponse(data any) fiber.Map {
	return fiber.Map{"data": data}
}

func listResponse[T any](items []T) fiber.Map {
	return fiber.Map{"results": len(items), "data": items}
}
