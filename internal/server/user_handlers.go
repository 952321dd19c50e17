package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /users (admin)
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(users)
}

// GetMyProfile handles GET /users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	p := s.principal(c)

	user, err := s.userService.GetUser(c.Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /users
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	p := s.principal(c)

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = p.ID

	user, err := s.userService.UpdateProfile(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// DeleteUser handles DELETE /users/:username (admin)
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := s.userService.DeleteByUsername(c.Context(), username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User successfully deleted",
	})
}

// FollowUser handles POST /users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	return s.toggleFollow(c, true)
}

// UnfollowUser handles DELETE /users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	return s.toggleFollow(c, false)
}

func (s *Server) toggleFollow(c *fiber.Ctx, enable bool) error {
	p := s.principal(c)
	username := c.Params("username")

	profile, err := s.userService.ToggleFollow(c.Context(), p.ID, username, enable)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}
