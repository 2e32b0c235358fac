package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/events"
	"github.com/touristique/touristique/internal/pkg/store"
)

// Profile field names accepted by Write.
const (
	FieldInterests    = "interests"
	FieldDurationDays = "durationDays"
	FieldBudget       = "budget"
	FieldTravelers    = "travelers"
	FieldStartCity    = "start_city"
)

// legacyInterestLabels maps retired interest labels to their current names.
// Stored profiles are migrated transparently on read.
var legacyInterestLabels = map[string]string{
	"Heritage": "Historical",
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the profile store contract. Read never fails: missing or
// malformed stored data falls back to the documented defaults.
type Service interface {
	Read(ctx context.Context, userID string) models.UserProfile
	Write(ctx context.Context, userID, field, value string) error
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger *zap.Logger
	kv     store.KV
	bus    events.Bus
}

// NewService creates a new profile service instance.
func NewService(kv store.KV, bus events.Bus, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{logger: logger, kv: kv, bus: bus}
}

// key builds the store key for one profile field. Authenticated users get a
// per-user namespace; anonymous visitors share the plain namespace.
func key(userID, field string) string {
	if userID != "" {
		return fmt.Sprintf("profile:%s:%s", userID, field)
	}
	return "profile." + field
}

// Read assembles the profile for userID, falling back per field to defaults
// whenever a value is absent or unparseable.
func (s *ServiceImpl) Read(ctx context.Context, userID string) models.UserProfile {
	ctx, span := otel.Tracer("profileService").Start(ctx, "Read", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	profile := models.DefaultProfile()

	if raw, ok := s.get(ctx, key(userID, FieldInterests)); ok {
		var interests []string
		if err := json.Unmarshal([]byte(raw), &interests); err == nil {
			profile.Interests = migrateInterests(interests)
		} else {
			s.logger.Warn("Malformed stored interests, using defaults",
				zap.String("userID", userID), zap.Error(err))
		}
	}
	if raw, ok := s.get(ctx, key(userID, FieldDurationDays)); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
			profile.DurationDays = v
		}
	}
	if raw, ok := s.get(ctx, key(userID, FieldBudget)); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && v >= 0 {
			profile.Budget = v
		}
	}
	if raw, ok := s.get(ctx, key(userID, FieldTravelers)); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
			profile.Travelers = v
		}
	}
	if raw, ok := s.get(ctx, key(userID, FieldStartCity)); ok && strings.TrimSpace(raw) != "" {
		profile.StartCity = strings.TrimSpace(raw)
	}

	span.SetStatus(codes.Ok, "Profile read")
	return profile
}

// Write coerces value to the field's declared type, persists it, then
// announces the update so dependent views refetch derived data.
func (s *ServiceImpl) Write(ctx context.Context, userID, field, value string) error {
	ctx, span := otel.Tracer("profileService").Start(ctx, "Write", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("field", field),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Write"),
		zap.String("userID", userID), zap.String("field", field))

	stored, err := coerceField(field, value)
	if err != nil {
		l.Warn("Rejected profile value", zap.String("value", value), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid profile value")
		return err
	}

	if err := s.kv.Set(ctx, key(userID, field), stored); err != nil {
		l.Error("Failed to persist profile field", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store write failed")
		return fmt.Errorf("error writing profile field %s: %w", field, err)
	}

	l.Debug("Profile field updated")
	span.SetStatus(codes.Ok, "Profile field updated")
	s.bus.Publish(events.TopicProfileUpdated, userID)
	return nil
}

func (s *ServiceImpl) get(ctx context.Context, k string) (string, bool) {
	value, ok, err := s.kv.Get(ctx, k)
	if err != nil {
		s.logger.Warn("Store read failed, treating as absent", zap.String("key", k), zap.Error(err))
		return "", false
	}
	return value, ok
}

// coerceField validates and normalizes a raw field value into its stored
// string form.
func coerceField(field, value string) (string, error) {
	switch field {
	case FieldInterests:
		interests, err := parseInterests(value)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(migrateInterests(interests))
		if err != nil {
			return "", fmt.Errorf("error encoding interests: %w", err)
		}
		return string(encoded), nil
	case FieldDurationDays, FieldTravelers:
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || v <= 0 {
			return "", fmt.Errorf("%s must be a positive integer: %w", field, models.ErrValidation)
		}
		return strconv.Itoa(v), nil
	case FieldBudget:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || v < 0 {
			return "", fmt.Errorf("budget must be a non-negative number: %w", models.ErrValidation)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case FieldStartCity:
		city := strings.TrimSpace(value)
		if city == "" {
			return "", fmt.Errorf("start city cannot be empty: %w", models.ErrValidation)
		}
		return city, nil
	default:
		return "", fmt.Errorf("unknown profile field %q: %w", field, models.ErrBadRequest)
	}
}

// parseInterests accepts either a JSON string array or a comma separated
// list (the form encoding used by the preference chips).
func parseInterests(value string) ([]string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var interests []string
		if err := json.Unmarshal([]byte(trimmed), &interests); err != nil {
			return nil, fmt.Errorf("malformed interests list: %w", models.ErrValidation)
		}
		return interests, nil
	}
	parts := strings.Split(trimmed, ",")
	interests := lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
	return interests, nil
}

// migrateInterests renames legacy labels and removes duplicates while
// preserving order.
func migrateInterests(interests []string) []string {
	migrated := lo.Map(interests, func(name string, _ int) string {
		if current, ok := legacyInterestLabels[name]; ok {
			return current
		}
		return name
	})
	return lo.Uniq(migrated)
}
