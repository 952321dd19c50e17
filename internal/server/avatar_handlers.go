package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadAvatar handles POST /users/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	p := s.principal(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File not provided"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	avatar, uploadErr := s.avatarService.Upload(c.Context(), service.UploadAvatarInput{
		UserID:      p.ID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if uploadErr != nil {
		return respondError(c, uploadErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"avatar": avatar})
}

// DeleteAvatar handles DELETE /users/avatar
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	p := s.principal(c)

	if err := s.avatarService.Remove(c.Context(), p.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
