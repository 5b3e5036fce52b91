package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	ExportDir    string
	HouseholdCSV string
	RunID        string

	// Simulation defaults, overridable by CLI flags.
	Weeks          int
	HouseholdSize  int
	PantryCapacity int
	Seed           int64

	// HTTP API
	Port string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// LoadDotEnv loads variables from .env files into the environment. Missing
// files are not an error.
func LoadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       getEnv("PANTRY_DB_PATH", "data/pantry.db"),
		ExportDir:          os.Getenv("PANTRY_EXPORT_DIR"),
		HouseholdCSV:       os.Getenv("PANTRY_HOUSEHOLD_CSV"),
		RunID:              os.Getenv("PANTRY_RUN_ID"),
		Port:               getEnv("PORT", "8080"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	var err error
	if cfg.Weeks, err = getInt("PANTRY_WEEKS", 10); err != nil {
		return nil, err
	}
	if cfg.HouseholdSize, err = getInt("PANTRY_HOUSEHOLD_SIZE", 4); err != nil {
		return nil, err
	}
	if cfg.PantryCapacity, err = getInt("PANTRY_CAPACITY", 150); err != nil {
		return nil, err
	}
	seed, err := getInt("PANTRY_SEED", 42)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)

	if cfg.Weeks < 1 {
		return nil, fmt.Errorf("PANTRY_WEEKS must be at least 1, got %d", cfg.Weeks)
	}
	if cfg.HouseholdSize < 1 {
		return nil, fmt.Errorf("PANTRY_HOUSEHOLD_SIZE must be at least 1, got %d", cfg.HouseholdSize)
	}
	if cfg.PantryCapacity < 1 {
		return nil, fmt.Errorf("PANTRY_CAPACITY must be at least 1, got %d", cfg.PantryCapacity)
	}

	if cfg.TelegramAllowedUserIDs, err = getIDList("TELEGRAM_ALLOWED_USER_IDS"); err != nil {
		return nil, err
	}
	if raw := os.Getenv("TELEGRAM_ADMIN_ID"); raw != "" {
		if cfg.AdminTelegramID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID: %w", err)
		}
	}

	return cfg, nil
}

// ValidateBot checks the settings only the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getIDList(key string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", key, part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
