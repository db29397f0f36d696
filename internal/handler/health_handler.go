package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	statusConnected     = "connected"
	statusError         = "error"
	statusNotConfigured = "not_configured"
)

type HealthHandler struct {
	mongo *mongo.Client
	redis redis.UniversalClient
}

// NewHealthHandler accepts nil for any store that is not configured.
func NewHealthHandler(mongoClient *mongo.Client, redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{
		mongo: mongoClient,
		redis: redisClient,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	var mongoStatus, redisStatus string

	// Checks never fail the group; each one reports into its own status.
	var g errgroup.Group
	g.Go(func() error {
		mongoStatus = h.checkMongo(ctx)
		return nil
	})
	g.Go(func() error {
		redisStatus = h.checkRedis(ctx)
		return nil
	})
	_ = g.Wait()

	return c.JSON(fiber.Map{
		"status": "ok",
		"stores": fiber.Map{
			"mongo": mongoStatus,
			"redis": redisStatus,
		},
	})
}

func (h *HealthHandler) checkMongo(ctx context.Context) string {
	if h.mongo == nil {
		return statusNotConfigured
	}
	if err := h.mongo.Ping(ctx, nil); err != nil {
		return statusError
	}
	return statusConnected
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if h.redis == nil {
		return statusNotConfigured
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return statusError
	}
	return statusConnected
}
