package config

import (
	"os"
	"strconv"
)

// PlannerConfig points at the external planning API. An empty BaseURL means
// the app runs offline: plan and chat calls are skipped and the UI degrades
// to its empty states.
type PlannerConfig struct {
	BaseURL string
}

// GoogleConfig configures the external identity provider. An empty ClientID
// disables sign-in (it becomes a logged no-op).
type GoogleConfig struct {
	ClientID string
	UseFedCM bool
}

// StoreConfig locates the local key/value persistence file.
type StoreConfig struct {
	Path string
}

type Config struct {
	ServerPort    string
	SessionSecret string
	Planner       PlannerConfig
	Google        GoogleConfig
	Store         StoreConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", "touristique-dev-secret"),
		Planner: PlannerConfig{
			BaseURL: os.Getenv("PLANNER_API_BASE_URL"),
		},
		Google: GoogleConfig{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
			UseFedCM: getEnvBool("GOOGLE_USE_FEDCM", false),
		},
		Store: StoreConfig{
			Path: getEnvOrDefault("STORE_PATH", "touristique.db"),
		},
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
