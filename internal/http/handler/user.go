package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/service"
)

func userIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// ListUsers returns every account. Admin only.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": users})
	}
}

// GetUser returns one account by ID. Admin only.
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := userIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_ID", "user id must be numeric")
		}
		user, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

// CreateUser registers an account on behalf of an admin.
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		user, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// UpdateUser changes username, email or role. Passwords are not editable here.
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := userIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_ID", "user id must be numeric")
		}
		var in service.UpdateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		user, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

// DeleteUser removes an account.
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := userIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_ID", "user id must be numeric")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
