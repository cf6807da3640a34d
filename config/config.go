package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type PersistMode string

const (
	// PersistSync awaits the store write before replying.
	PersistSync PersistMode = "sync"
	// PersistAsync updates the in-process cache, replies, then writes the
	// store in the background. A failed background write is only logged.
	PersistAsync PersistMode = "async"
)

const (
	StoreDrive     = "drive"
	StoreFirestore = "firestore"
	StoreBolt      = "bolt"
	StoreMemory    = "memory"
)

type Config struct {
	Port string

	GCPProjectID string
	GCPLocation  string
	GeminiAPIKey string
	UseMockLLM   bool
	ModelID      string
	ModelTimeout time.Duration

	ContextFileID       string
	ContextStore        string
	FirestoreCollection string
	BoltPath            string

	PersistMode    PersistMode
	PersistTimeout time.Duration

	AuthEnabled  bool
	ServerAPIKey string

	// Front-end values served by /env-config.js.
	ClientID     string
	ClientAPIKey string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GCP_PROJECT_ID", "gold-braid-312320")
	v.SetDefault("GCP_LOCATION", "us-central1")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("USE_MOCK_LLM", false)
	v.SetDefault("MODEL_ID", "gemini-1.5-pro-preview-0409")
	v.SetDefault("MODEL_TIMEOUT", "30s")
	v.SetDefault("CONTEXT_FILE_ID", "1w0rN4iKxqIIRRmhUP9tlgkkJUUR0sHzjlInTX01SuQo")
	v.SetDefault("CONTEXT_STORE", StoreDrive)
	v.SetDefault("FIRESTORE_COLLECTION", "contexts")
	v.SetDefault("BOLT_PATH", "data/context.bolt")
	v.SetDefault("PERSIST_MODE", string(PersistSync))
	v.SetDefault("PERSIST_TIMEOUT", "15s")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("SERVER_API_KEY", "")
	v.SetDefault("CLIENT_ID", "")
	v.SetDefault("API_KEY", "")
}

// Load reads the environment (after any .env file has been applied) and
// validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port: v.GetString("PORT"),

		GCPProjectID: v.GetString("GCP_PROJECT_ID"),
		GCPLocation:  v.GetString("GCP_LOCATION"),
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		UseMockLLM:   v.GetBool("USE_MOCK_LLM"),
		ModelID:      v.GetString("MODEL_ID"),
		ModelTimeout: v.GetDuration("MODEL_TIMEOUT"),

		ContextFileID:       v.GetString("CONTEXT_FILE_ID"),
		ContextStore:        v.GetString("CONTEXT_STORE"),
		FirestoreCollection: v.GetString("FIRESTORE_COLLECTION"),
		BoltPath:            v.GetString("BOLT_PATH"),

		PersistMode:    PersistMode(v.GetString("PERSIST_MODE")),
		PersistTimeout: v.GetDuration("PERSIST_TIMEOUT"),

		AuthEnabled:  v.GetBool("AUTH_ENABLED"),
		ServerAPIKey: v.GetString("SERVER_API_KEY"),

		ClientID:     v.GetString("CLIENT_ID"),
		ClientAPIKey: v.GetString("API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at request time.
// An empty SERVER_API_KEY with AUTH_ENABLED is accepted on purpose: requests
// then get a 500 instead of the process refusing to start.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.ModelID == "" {
		return fmt.Errorf("MODEL_ID is required")
	}
	if c.ContextFileID == "" {
		return fmt.Errorf("CONTEXT_FILE_ID is required")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("invalid MODEL_TIMEOUT: %s", c.ModelTimeout)
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("invalid PERSIST_TIMEOUT: %s", c.PersistTimeout)
	}

	switch c.ContextStore {
	case StoreDrive, StoreMemory:
	case StoreFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required for the firestore store")
		}
		if c.FirestoreCollection == "" {
			return fmt.Errorf("FIRESTORE_COLLECTION is required for the firestore store")
		}
	case StoreBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is required for the bolt store")
		}
	default:
		return fmt.Errorf("invalid CONTEXT_STORE: %q", c.ContextStore)
	}

	switch c.PersistMode {
	case PersistSync, PersistAsync:
	default:
		return fmt.Errorf("invalid PERSIST_MODE: %q, must be 'sync' or 'async'", c.PersistMode)
	}

	if !c.UseMockLLM && c.GeminiAPIKey == "" && (c.GCPProjectID == "" || c.GCPLocation == "") {
		return fmt.Errorf("GCP_PROJECT_ID and GCP_LOCATION are required unless GEMINI_API_KEY is set")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
