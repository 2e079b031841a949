package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/service"
)

// createStudentRequest is the student payload plus the avatar declaration
// needed to issue the upload authorization in the same round trip.
type createStudentRequest struct {
	service.CreateStudentInput
	Avatar struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	} `json:"avatar"`
}

// CreateStudent begins a student creation: the row is inserted and a presigned
// upload URL for the mandatory avatar is returned. The client PUTs the image
// directly to storage and then calls the confirm endpoint.
func CreateStudent(orch service.CreationOrchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createStudentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		if req.Avatar.ContentType == "" {
			return writeError(c, fiber.StatusBadRequest, "AVATAR_REQUIRED", "avatar filename and content_type are required")
		}

		begun, err := orch.Begin(c.UserContext(), req.CreateStudentInput, req.Avatar.Filename, req.Avatar.ContentType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(begun)
	}
}

// AbortStudentCreation compensates a creation whose upload the client gave up on.
func AbortStudentCreation(orch service.CreationOrchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := orch.Abort(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListStudents searches students with filtering, sorting, and pagination.
func ListStudents(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := service.StudentSearchParams{
			SortBy:     c.Query("sort_by"),
			SortOrder:  c.Query("sort_order"),
			SearchBy:   c.Query("search_by"),
			SearchTerm: c.Query("q"),
		}

		var err error
		if params.Page, err = queryInt(c, "page", 1); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		if params.PageSize, err = queryInt(c, "page_size", 0); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE_SIZE", "invalid page_size")
		}

		if g := c.Query("gender"); g != "" {
			params.Gender = &g
		}
		if p := c.Query("program_code"); p != "" {
			params.ProgramCode = &p
		}
		if y := c.Query("year_level"); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR_LEVEL", "invalid year_level")
			}
			params.YearLevel = &year
		}

		res, err := svc.Search(c.UserContext(), params)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetStudent returns one student by ID number.
func GetStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(student)
	}
}

// UpdateStudent applies a partial update to a student.
func UpdateStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UpdateStudentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		student, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(student)
	}
}

// DeleteStudent removes a student by ID number.
func DeleteStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
