package planner

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/domain/profile"
	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/observability/metrics"
	"github.com/touristique/touristique/internal/pkg/events"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service owns the displayed plan state. Refresh builds a plan request from
// the user's profile, calls the planning API and normalizes the response;
// Current and Select read and steer the displayed PlanSet.
type Service interface {
	Refresh(ctx context.Context, userID string) *models.PlanSet
	Current(userID string) (*models.PlanSet, bool)
	Select(userID string, idx int) (*models.PlanSet, bool)
	Ask(ctx context.Context, userID, question string) string
	Recommendations(ctx context.Context, userID string) []models.Recommendation
	Trips(ctx context.Context, userID string) []models.Trip
}

// ServiceImpl provides the implementation for Service.
//
// Overlapping refreshes for the same user are sequenced by token: each
// refresh takes the next token and only the response holding the newest
// token may overwrite the displayed state, so a slow early response never
// clobbers a later one.
type ServiceImpl struct {
	logger   *zap.Logger
	client   Client
	profiles profile.Service

	// Displayed PlanSet per user id. This is view state, not an API cache:
	// entries expire so stale itineraries are refetched on the next visit.
	state *gocache.Cache

	mu     sync.Mutex
	tokens map[string]uint64
}

// NewService creates a new planner service instance and subscribes it to
// the events that invalidate displayed plans: login and profile updates.
func NewService(client Client, profiles profile.Service, bus events.Bus, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ServiceImpl{
		logger:   logger,
		client:   client,
		profiles: profiles,
		state:    gocache.New(30*time.Minute, 10*time.Minute),
		tokens:   make(map[string]uint64),
	}

	bus.Subscribe(events.TopicAuthLogin, func(payload any) {
		user, ok := payload.(*models.AuthUser)
		if !ok || user == nil {
			return
		}
		go s.Refresh(context.Background(), user.ID)
	})
	bus.Subscribe(events.TopicProfileUpdated, func(payload any) {
		userID, ok := payload.(string)
		if !ok {
			return
		}
		go s.Refresh(context.Background(), userID)
	})
	bus.Subscribe(events.TopicAuthLogout, func(any) {
		// Displayed plans belong to the session that fetched them.
		s.state.Flush()
	})

	return s
}

// Refresh fetches and normalizes a fresh PlanSet for userID, returning the
// set that ended up displayed. Transport failures degrade to an empty set.
func (s *ServiceImpl) Refresh(ctx context.Context, userID string) *models.PlanSet {
	ctx, span := otel.Tracer("plannerService").Start(ctx, "Refresh", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Refresh"), zap.String("userID", userID))

	token := s.nextToken(userID)
	prof := s.profiles.Read(ctx, userID)

	resp, err := s.client.RequestPlan(ctx, prof)
	metrics.Get().RecordPlanRequest(ctx, err == nil)
	if err != nil {
		l.Warn("Plan request failed, degrading to empty itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Ok, "Degraded to empty plan set")
		empty := &models.PlanSet{Plans: []models.Plan{}}
		s.storeIfLatest(userID, token, empty)
		return empty
	}

	set := Normalize(resp, prof.DurationDays)
	if !s.storeIfLatest(userID, token, &set) {
		l.Debug("Dropping stale plan response", zap.Uint64("token", token))
		span.SetStatus(codes.Ok, "Stale response dropped")
		if current, ok := s.Current(userID); ok {
			return current
		}
		return &set
	}

	l.Info("Plan set refreshed", zap.Int("candidates", len(set.Plans)))
	span.SetStatus(codes.Ok, "Plan set refreshed")
	return &set
}

// Current returns the displayed PlanSet for userID, if any.
func (s *ServiceImpl) Current(userID string) (*models.PlanSet, bool) {
	entry, ok := s.state.Get(userID)
	if !ok {
		return nil, false
	}
	set, ok := entry.(*models.PlanSet)
	return set, ok
}

// Select switches the displayed candidate. Out-of-range indexes are ignored
// and the unchanged set is returned. Stored sets are never mutated in place:
// a copy carrying the new selection replaces the old one, so concurrent page
// renders keep reading a consistent set.
func (s *ServiceImpl) Select(userID string, idx int) (*models.PlanSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.state.Get(userID)
	if !ok {
		return nil, false
	}
	current, ok := entry.(*models.PlanSet)
	if !ok {
		return nil, false
	}

	set := *current
	if idx >= 0 && idx < len(set.Plans) {
		set.Selected = idx
	}
	s.state.Set(userID, &set, gocache.DefaultExpiration)
	return &set, true
}

// Ask sends a chat question built from the user's profile. Failures degrade
// to an empty answer.
func (s *ServiceImpl) Ask(ctx context.Context, userID, question string) string {
	ctx, span := otel.Tracer("plannerService").Start(ctx, "Ask")
	defer span.End()

	prof := s.profiles.Read(ctx, userID)
	resp, err := s.client.AskQuestion(ctx, question, prof)
	metrics.Get().RecordAskRequest(ctx, err == nil)
	if err != nil {
		s.logger.Warn("Question failed, degrading to empty answer",
			zap.String("userID", userID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Ok, "Degraded to empty answer")
		return ""
	}
	span.SetStatus(codes.Ok, "Question answered")
	return resp.Answer
}

// Recommendations fetches the legacy recommendations feed, degrading to
// empty on failure.
func (s *ServiceImpl) Recommendations(ctx context.Context, userID string) []models.Recommendation {
	items, err := s.client.FetchRecommendations(ctx, userID)
	if err != nil {
		s.logger.Warn("Recommendations fetch failed", zap.String("userID", userID), zap.Error(err))
		return []models.Recommendation{}
	}
	return items
}

// Trips fetches the legacy trips feed, degrading to empty on failure.
func (s *ServiceImpl) Trips(ctx context.Context, userID string) []models.Trip {
	items, err := s.client.FetchTrips(ctx, userID)
	if err != nil {
		s.logger.Warn("Trips fetch failed", zap.String("userID", userID), zap.Error(err))
		return []models.Trip{}
	}
	return items
}

func (s *ServiceImpl) nextToken(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID]++
	return s.tokens[userID]
}

// storeIfLatest writes the set only when token is still the newest issued
// for userID. The comparison and the write happen under one lock so a stale
// refresh can never slip its result in after a newer one has stored.
func (s *ServiceImpl) storeIfLatest(userID string, token uint64, set *models.PlanSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.tokens[userID] {
		return false
	}
	s.state.Set(userID, set, gocache.DefaultExpiration)
	return true
}
