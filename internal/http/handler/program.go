package handler

import (
	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/model"
	"ssisapi/internal/service"
)

// CreateProgram adds a new program under an existing college.
func CreateProgram(svc service.ProgramService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Program
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		program, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(program)
	}
}

// ListPrograms lists programs, optionally filtered to one college.
func ListPrograms(svc service.ProgramService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := listParamsFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", "invalid page or page_size")
		}
		var collegeCode *string
		if cc := c.Query("college_code"); cc != "" {
			collegeCode = &cc
		}
		res, err := svc.List(c.UserContext(), params, collegeCode)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetProgram returns one program by code.
func GetProgram(svc service.ProgramService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		program, err := svc.Get(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(program)
	}
}

// UpdateProgram replaces a program's fields.
func UpdateProgram(svc service.ProgramService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Program
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		program, err := svc.Update(c.UserContext(), c.Params("code"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(program)
	}
}

// DeleteProgram removes a program by code.
func DeleteProgram(svc service.ProgramService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("code")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
