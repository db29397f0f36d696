// Package config centralises all environment configuration for the bot.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive already-built values via dependency injection.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime option the server needs.
// Keep it flat; only the dialogue tuning, which may come from a file, is nested.
type Config struct {
	// Network
	Port         string        `validate:"required,numeric"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`

	// Data stores (all optional)
	MongoURI             string
	DBName               string `validate:"required"`
	GuideCollection      string `validate:"required"`
	TranscriptCollection string `validate:"required"`
	VectorIndex          string `validate:"required"`
	RedisAddr            string
	RedisPassword        string
	RedisDB              int           `validate:"gte=0"`
	CacheTTL             time.Duration `validate:"gte=0"`

	// Google Cloud
	ProjectID       string `validate:"required_if=LLMProvider vertex"`
	Location        string `validate:"required"`
	CredentialsFile string
	EmbeddingModel  string `validate:"required"`
	GenerationModel string `validate:"required"`

	// Generation
	LLMProvider   string `validate:"oneof=vertex openai"`
	OpenAIBaseURL string `validate:"omitempty,url"`
	OpenAIToken   string `validate:"required_if=LLMProvider openai"`
	OpenAIModel   string `validate:"required_if=LLMProvider openai"`

	// Live search
	SearchProvider string `validate:"oneof=google brave none"`
	GoogleAPIKey   string `validate:"required_if=SearchProvider google"`
	GoogleCX       string `validate:"required_if=SearchProvider google"`
	BraveAPIKey    string `validate:"required_if=SearchProvider brave"`

	// Dialogue
	CollaboratorTimeout time.Duration `validate:"gt=0"`
	SessionTTL          time.Duration `validate:"gt=0"`
	Dialogue            Dialogue

	// Logging
	TelegramToken  string
	TelegramChatID string `validate:"required_with=TelegramToken"`
}

// Dialogue tunes the dialogue controller. It can be overridden from the YAML
// file named by DIALOGUE_CONFIG.
type Dialogue struct {
	// Clarifying questions allowed per session
	MaxFollowUps int `yaml:"max_follow_ups" example:"2" validate:"gte=0"`
	// Reset the follow-up counter after every answer
	ResetFollowUps bool `yaml:"reset_follow_ups" example:"false"`
	// Answers shorter than this (in characters) are discarded
	MinAnswerLength int `yaml:"min_answer_length" example:"5" validate:"gte=0"`
	// Answers that start with one of these phrases are discarded
	DisqualifyingPhrases []string `yaml:"disqualifying_phrases" example:"[\"I don't know\"]"`
}

// Load parses the environment (and an optional .env file) into Config and
// validates it.
func Load() (Config, error) {
	// godotenv.Load() is a no-op if .env doesn't exist.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout: getDuration("WRITE_TIMEOUT_SEC", 60),

		MongoURI:             os.Getenv("MONGODB_URI"),
		DBName:               getEnv("MONGODB_DB", "namastebot"),
		GuideCollection:      getEnv("MONGODB_GUIDE_COLLECTION", "guide_chunks"),
		TranscriptCollection: getEnv("MONGODB_TRANSCRIPT_COLLECTION", "transcripts"),
		VectorIndex:          getEnv("MONGODB_VECTOR_INDEX", "guide_vector_index"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		CacheTTL:             getDuration("CACHE_TTL_SEC", 3600),

		ProjectID:       os.Getenv("GCP_PROJECT_ID"),
		Location:        getEnv("GCP_LOCATION", "us-central1"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-005"),
		GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.0-flash-lite-001"),

		LLMProvider:   getEnv("LLM_PROVIDER", "vertex"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIToken:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),

		SearchProvider: getEnv("SEARCH_PROVIDER", "google"),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GoogleCX:       os.Getenv("GOOGLE_CSE_ID"),
		BraveAPIKey:    os.Getenv("BRAVE_API_KEY"),

		CollaboratorTimeout: getDuration("COLLABORATOR_TIMEOUT_SEC", 20),
		SessionTTL:          getDuration("SESSION_TTL_SEC", 1800),
		Dialogue: Dialogue{
			MaxFollowUps:    getInt("DIALOGUE_MAX_FOLLOW_UPS", 2),
			ResetFollowUps:  getBool("DIALOGUE_RESET_FOLLOW_UPS", false),
			MinAnswerLength: getInt("DIALOGUE_MIN_ANSWER_LENGTH", 5),
		},

		TelegramToken:  os.Getenv("LOG_TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("LOG_TELEGRAM_CHAT_ID"),
	}

	if path := os.Getenv("DIALOGUE_CONFIG"); path != "" {
		if err := loadDialogueFile(path, &cfg.Dialogue); err != nil {
			return Config{}, err
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, oops.
			In("config").
			Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// loadDialogueFile overlays the YAML file at path onto d. Keys missing from
// the file keep their current values.
func loadDialogueFile(path string, d *Dialogue) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.
			In("config").
			With("path", path).
			Errorf("failed to read dialogue config: %w", err)
	}

	if err = yaml.Unmarshal(data, d); err != nil {
		return oops.
			In("config").
			With("path", path).
			Errorf("failed to parse dialogue config: %w", err)
	}

	return nil
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("Invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("Invalid boolean env var, using default", "key", key, "value", v, "default", defaultVal)
	}
	return defaultVal
}
