package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /posts/:slug/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.postService.ListComments(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /posts/:slug/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	p := s.principal(c)

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.Context(), p.ID, c.Params("slug"), req.Body)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /posts/:slug/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	p := s.principal(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	if err := s.postService.DeleteComment(c.Context(), p.ID, c.Params("slug"), uint(id)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
