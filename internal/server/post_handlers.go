package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /posts (admin). Drafts are included; the listing is
// not relative to any requester.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	result, err := s.postService.ListAllPosts(c.Context(), service.ListPostsInput{
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetMyPosts handles GET /posts/my
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	p := s.principal(c)
	page := parsePagination(c, 20)

	result, err := s.postService.MyPosts(c.Context(), p.ID, service.ListPostsInput{
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetFeed handles GET /posts/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := s.principal(c)
	page := parsePagination(c, 20)

	result, err := s.postService.Feed(c.Context(), p.ID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetDrafts handles GET /posts/drafts
func (s *Server) GetDrafts(c *fiber.Ctx) error {
	p := s.principal(c)

	result, err := s.postService.Drafts(c.Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetPost handles GET /posts/:slug
func (s *Server) GetPost(c *fiber.Ctx) error {
	p := s.principal(c)

	post, err := s.postService.GetPost(c.Context(), c.Params("slug"), p.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// CreatePost handles POST /posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	p := s.principal(c)

	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.AuthorID = p.ID

	post, err := s.postService.CreatePost(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// UpdatePost handles PUT /posts/:slug
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	p := s.principal(c)

	var req service.UpdatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.CallerID = p.ID
	req.Slug = c.Params("slug")

	post, err := s.postService.UpdatePost(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /posts/:slug
func (s *Server) DeletePost(c *fiber.Ctx) error {
	p := s.principal(c)

	if err := s.postService.DeletePost(c.Context(), p.ID, c.Params("slug")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// PublishPost handles PUT /posts/:slug/publish
func (s *Server) PublishPost(c *fiber.Ctx) error {
	p := s.principal(c)

	post, err := s.postService.Publish(c.Context(), p.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// IncrementViews handles PUT /posts/:slug/views. Public: a view does not
// require an account.
func (s *Server) IncrementViews(c *fiber.Ctx) error {
	post, err := s.postService.IncrementViews(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// FavoritePost handles POST /posts/:slug/favorite
func (s *Server) FavoritePost(c *fiber.Ctx) error {
	return s.toggleFavorite(c, true)
}

// UnfavoritePost handles DELETE /posts/:slug/favorite
func (s *Server) UnfavoritePost(c *fiber.Ctx) error {
	return s.toggleFavorite(c, false)
}

func (s *Server) toggleFavorite(c *fiber.Ctx, enable bool) error {
	p := s.principal(c)

	post, err := s.postService.ToggleFavorite(c.Context(), p.ID, c.Params("slug"), enable)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}
