package handler

import (
	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/model"
	"ssisapi/internal/service"
)

func listParamsFromQuery(c *fiber.Ctx) (service.ListParams, error) {
	params := service.ListParams{
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		SearchTerm: c.Query("q"),
	}
	var err error
	if params.Page, err = queryInt(c, "page", 1); err != nil {
		return params, err
	}
	params.PageSize, err = queryInt(c, "page_size", 0)
	return params, err
}

// CreateCollege adds a new college.
func CreateCollege(svc service.CollegeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.College
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		college, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(college)
	}
}

// ListColleges lists colleges with search, sorting, and pagination.
func ListColleges(svc service.CollegeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := listParamsFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", "invalid page or page_size")
		}
		res, err := svc.List(c.UserContext(), params)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetCollege returns one college by code.
func GetCollege(svc service.CollegeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		college, err := svc.Get(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(college)
	}
}

// UpdateCollege replaces a college's fields.
func UpdateCollege(svc service.CollegeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.College
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		college, err := svc.Update(c.UserContext(), c.Params("code"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(college)
	}
}

// DeleteCollege removes a college with no remaining programs.
func DeleteCollege(svc service.CollegeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("code")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
