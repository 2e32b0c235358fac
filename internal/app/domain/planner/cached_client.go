package planner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/cache"
)

// Ensure implementation satisfies the interface
var _ Client = (*CachedClient)(nil)

// CachedClient memoizes /plan responses per profile so repeated refreshes
// with unchanged preferences skip the upstream call. Chat questions and the
// legacy feeds always go through.
type CachedClient struct {
	logger *zap.Logger
	inner  Client
	plans  *cache.Cache[*PlanResponse]
}

// NewCachedClient wraps inner with a short-lived plan response cache.
func NewCachedClient(inner Client, ttl time.Duration, logger *zap.Logger) *CachedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{
		logger: logger,
		inner:  inner,
		plans:  cache.New[*PlanResponse](ttl, "plans", logger),
	}
}

func (c *CachedClient) RequestPlan(ctx context.Context, profile models.UserProfile) (*PlanResponse, error) {
	key := cache.NewKeyBuilder().AddProfile(profile).BuildOrDefault()
	if key != "" {
		if resp, ok := c.plans.Get(key); ok {
			c.logger.Debug("Plan response served from cache")
			return resp, nil
		}
	}

	resp, err := c.inner.RequestPlan(ctx, profile)
	if err != nil {
		return nil, err
	}
	if key != "" && resp != nil {
		c.plans.Set(key, resp)
	}
	return resp, nil
}

func (c *CachedClient) AskQuestion(ctx context.Context, question string, profile models.UserProfile) (AskResponse, error) {
	return c.inner.AskQuestion(ctx, question, profile)
}

func (c *CachedClient) FetchRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error) {
	return c.inner.FetchRecommendations(ctx, userID)
}

func (c *CachedClient) FetchTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	return c.inner.FetchTrips(ctx, userID)
}
