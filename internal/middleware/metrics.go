package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FollowToggles counts follow graph mutations by direction and outcome.
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_follow_toggles_total",
		Help: "Total number of follow/unfollow attempts by outcome",
	}, []string{"direction", "outcome"})

	// FavoriteToggles counts favorite graph mutations by direction.
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_favorite_toggles_total",
		Help: "Total number of favorite/unfavorite operations",
	}, []string{"direction"})

	// PostsPublished counts draft-to-published transitions.
	PostsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_published_total",
		Help: "Total number of posts published",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP metrics collection middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
