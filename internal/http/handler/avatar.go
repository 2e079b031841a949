package handler

import (
	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/service"
)

type avatarUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type confirmUploadRequest struct {
	ObjectPath string `json:"object_path"`
}

// RequestAvatarUpload issues a presigned PUT URL for replacing an existing
// student's avatar. Nothing changes until the upload is confirmed.
func RequestAvatarUpload(svc service.AvatarService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req avatarUploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		auth, err := svc.CreateUploadAuthorization(c.UserContext(), c.Params("id"), req.Filename, req.ContentType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(auth)
	}
}

// ConfirmAvatarUpload commits a completed direct upload as the student's avatar.
func ConfirmAvatarUpload(svc service.AvatarService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req confirmUploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		if req.ObjectPath == "" {
			return writeError(c, fiber.StatusBadRequest, "OBJECT_PATH_REQUIRED", "object_path is required")
		}
		student, err := svc.ConfirmUpload(c.UserContext(), c.Params("id"), req.ObjectPath)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(student)
	}
}

// GetAvatarURL resolves a short-lived display URL for the student's avatar.
// Students without an avatar get a null url rather than an error.
func GetAvatarURL(svc service.AvatarService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ResolveDisplayURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteAvatar clears the student's avatar.
func DeleteAvatar(svc service.AvatarService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, err := svc.RemoveAvatar(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(student)
	}
}
