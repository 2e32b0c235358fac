package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/events"
	"github.com/touristique/touristique/internal/pkg/store"
)

// authUserKey is the store key holding the single active session.
const authUserKey = "authUser"

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service manages the single signed-in identity. SignIn decodes a provider
// credential into an AuthUser and persists it; SignOut clears it. A corrupt
// stored session reads as signed-out. At most one session is active.
type Service interface {
	SignIn(ctx context.Context, credential string) (*models.AuthUser, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) *models.AuthUser
	Provider() Provider
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *zap.Logger
	kv       store.KV
	bus      events.Bus
	provider Provider
}

// NewService creates a new auth session service instance.
func NewService(kv store.KV, bus events.Bus, provider Provider, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{logger: logger, kv: kv, bus: bus, provider: provider}
}

func (s *ServiceImpl) Provider() Provider { return s.provider }

// idClaims is the subset of the provider ID token payload the app uses.
type idClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// SignIn initializes the provider, decodes the credential and persists the
// resulting session. A misconfigured provider or malformed credential leaves
// the session unchanged and returns no user; neither crashes the page.
func (s *ServiceImpl) SignIn(ctx context.Context, credential string) (*models.AuthUser, error) {
	ctx, span := otel.Tracer("authService").Start(ctx, "SignIn")
	defer span.End()

	l := s.logger.With(zap.String("method", "SignIn"))

	if err := s.provider.Init(ctx); err != nil {
		if errors.Is(err, models.ErrProviderMissing) {
			l.Warn("Identity provider unavailable, sign-in is a no-op")
			span.SetStatus(codes.Ok, "Provider unavailable")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider init failed")
		return nil, fmt.Errorf("error initializing identity provider: %w", err)
	}

	user := decodeCredential(credential, s.provider.Name())
	if user == nil {
		l.Warn("Could not decode sign-in credential, session unchanged")
		span.SetStatus(codes.Ok, "Credential not decodable")
		return nil, nil
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session encoding failed")
		return nil, fmt.Errorf("error encoding session: %w", err)
	}
	if err := s.kv.Set(ctx, authUserKey, string(encoded)); err != nil {
		l.Error("Failed to persist session", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session write failed")
		return nil, fmt.Errorf("error persisting session: %w", err)
	}

	l.Info("Login successful", zap.String("userID", user.ID), zap.String("email", user.Email))
	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetStatus(codes.Ok, "Login successful")
	s.bus.Publish(events.TopicAuthLogin, user)
	return user, nil
}

// SignOut revokes the provider-side session when the stored session belongs
// to the same provider, clears the persisted user and announces the logout.
func (s *ServiceImpl) SignOut(ctx context.Context) error {
	ctx, span := otel.Tracer("authService").Start(ctx, "SignOut")
	defer span.End()

	l := s.logger.With(zap.String("method", "SignOut"))

	if user := s.Current(ctx); user != nil && user.Provider == s.provider.Name() {
		if err := s.provider.Revoke(ctx, user.Credential); err != nil {
			// Revocation is best effort; local logout proceeds regardless.
			l.Warn("Provider revoke failed", zap.Error(err))
		}
	}

	if err := s.kv.Delete(ctx, authUserKey); err != nil {
		l.Error("Failed to clear session", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session clear failed")
		return fmt.Errorf("error clearing session: %w", err)
	}

	l.Info("Logout successful")
	span.SetStatus(codes.Ok, "Logout successful")
	s.bus.Publish(events.TopicAuthLogout, nil)
	return nil
}

// Current returns the active session, or nil when absent or corrupt.
func (s *ServiceImpl) Current(ctx context.Context) *models.AuthUser {
	raw, ok, err := s.kv.Get(ctx, authUserKey)
	if err != nil || !ok {
		return nil
	}
	var user models.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("Corrupt stored session treated as signed-out", zap.Error(err))
		return nil
	}
	if user.ID == "" {
		return nil
	}
	return &user
}

// decodeCredential extracts the identity payload from a provider ID token.
// The credential was already asserted by the provider's client-side flow, so
// only the payload is decoded here; anything undecodable yields nil.
func decodeCredential(credential, provider string) *models.AuthUser {
	if credential == "" {
		return nil
	}

	var claims idClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(credential, &claims); err != nil {
		return nil
	}
	if claims.Subject == "" {
		return nil
	}

	return &models.AuthUser{
		ID:         claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		Picture:    claims.Picture,
		Credential: credential,
		Provider:   provider,
	}
}
