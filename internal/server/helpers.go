package server

import (
	"errors"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// principal returns the authenticated principal stored by the guard.
// Routes declared AccessUser or AccessAdmin always have one.
func (s *Server) principal(c *fiber.Ctx) *middleware.Principal {
	p, _ := c.Locals("principal").(*middleware.Principal)
	return p
}

// respondError maps a typed application error to its HTTP status and writes
// the message verbatim. Validation, conflict, and invalid-operation failures
// all surface as 400.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case "VALIDATION_ERROR", "CONFLICT", "INVALID_OPERATION":
		status = fiber.StatusBadRequest
	case "UNAUTHORIZED":
		status = fiber.StatusUnauthorized
	case "NOT_FOUND":
		status = fiber.StatusNotFound
	}
	return models.RespondWithError(c, status, appErr)
}
