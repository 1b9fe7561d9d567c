package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

func sessionFrom(c *fiber.Ctx) (*dashboard.Session, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Session, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseTime(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		d, derr := time.Parse("2006-01-02", val)
		if derr != nil {
			return nil, apperrors.NewValidationError("invalid date", map[string]any{"value": val})
		}
		t = d
	}
	return &t, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
