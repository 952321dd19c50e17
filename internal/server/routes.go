package server

import (
	"context"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// route declares one endpoint: its method, path, required access level,
// and handler. The table replaces per-handler auth checks with a single
// guard consulted before every handler.
type route struct {
	method  string
	path    string
	access  middleware.Access
	handler fiber.Handler
	// extra middleware (rate limits) applied between the guard and the
	// handler.
	extra []fiber.Handler
}

func (s *Server) routes() []route {
	return []route{
		{fiber.MethodPost, "/auth/register", middleware.AccessPublic, s.Register,
			[]fiber.Handler{middleware.RateLimit(s.redis, 3, 10*time.Minute, "register")}},
		{fiber.MethodPost, "/auth/login", middleware.AccessPublic, s.Login,
			[]fiber.Handler{middleware.RateLimit(s.redis, 10, 5*time.Minute, "login")}},

		{fiber.MethodGet, "/users", middleware.AccessAdmin, s.GetAllUsers, nil},
		{fiber.MethodGet, "/users/me", middleware.AccessUser, s.GetMyProfile, nil},
		{fiber.MethodPatch, "/users", middleware.AccessUser, s.UpdateMyProfile, nil},
		{fiber.MethodPost, "/users/avatar", middleware.AccessUser, s.UploadAvatar, nil},
		{fiber.MethodDelete, "/users/avatar", middleware.AccessUser, s.DeleteAvatar, nil},
		{fiber.MethodPost, "/users/:username/follow", middleware.AccessUser, s.FollowUser, nil},
		{fiber.MethodDelete, "/users/:username/follow", middleware.AccessUser, s.UnfollowUser, nil},
		{fiber.MethodDelete, "/users/:username", middleware.AccessAdmin, s.DeleteUser, nil},

		{fiber.MethodGet, "/posts", middleware.AccessAdmin, s.GetPosts, nil},
		{fiber.MethodPost, "/posts", middleware.AccessUser, s.CreatePost, nil},
		// Fixed segments must be declared before the :slug wildcard.
		{fiber.MethodGet, "/posts/my", middleware.AccessUser, s.GetMyPosts, nil},
		{fiber.MethodGet, "/posts/feed", middleware.AccessUser, s.GetFeed, nil},
		{fiber.MethodGet, "/posts/drafts", middleware.AccessUser, s.GetDrafts, nil},
		{fiber.MethodGet, "/posts/:slug/comments", middleware.AccessUser, s.GetComments, nil},
		{fiber.MethodPost, "/posts/:slug/comments", middleware.AccessUser, s.CreateComment, nil},
		{fiber.MethodDelete, "/posts/:slug/comments/:id", middleware.AccessUser, s.DeleteComment, nil},
		{fiber.MethodPost, "/posts/:slug/favorite", middleware.AccessUser, s.FavoritePost, nil},
		{fiber.MethodDelete, "/posts/:slug/favorite", middleware.AccessUser, s.UnfavoritePost, nil},
		{fiber.MethodPut, "/posts/:slug/views", middleware.AccessPublic, s.IncrementViews, nil},
		{fiber.MethodPut, "/posts/:slug/publish", middleware.AccessUser, s.PublishPost, nil},
		{fiber.MethodGet, "/posts/:slug", middleware.AccessUser, s.GetPost, nil},
		{fiber.MethodPut, "/posts/:slug", middleware.AccessUser, s.UpdatePost, nil},
		{fiber.MethodDelete, "/posts/:slug", middleware.AccessUser, s.DeletePost, nil},
	}
}

// SetupRoutes registers health endpoints, metrics, and the route table.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.HealthCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	for _, r := range s.routes() {
		handlers := append([]fiber.Handler{s.guard(r.access)}, r.extra...)
		handlers = append(handlers, r.handler)
		app.Add(r.method, r.path, handlers...)
	}
}

// guard derives the principal from the request and evaluates the route's
// access requirement. Anonymous and under-privileged requests get the same
// denial. The principal, if any, is stored for the handler.
func (s *Server) guard(access middleware.Access) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := middleware.PrincipalFromRequest(c, s.config.JWTSecret)

		if err := middleware.Authorize(principal, access); err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		if principal != nil {
			c.Locals("principal", principal)
			c.Locals("userID", principal.ID)
			ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, principal.ID)
			c.SetUserContext(ctx)
		}
		return c.Next()
	}
}
