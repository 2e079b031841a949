package handler

import (
	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new administrative user.
func Signup(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SignupInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		user, err := svc.Signup(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// Login exchanges credentials for a Bearer token.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		token, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(token)
	}
}
