package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	for _, key := range []string{"PANTRY_DB_PATH", "PANTRY_WEEKS", "PANTRY_HOUSEHOLD_SIZE", "PANTRY_CAPACITY", "PANTRY_SEED", "PORT", "TELEGRAM_ALLOWED_USER_IDS", "TELEGRAM_ADMIN_ID"} {
		t.Setenv(key, "")
	}

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/pantry.db" {
			t.Errorf("Expected DatabasePath to be 'data/pantry.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.Weeks != 10 || cfg.HouseholdSize != 4 || cfg.PantryCapacity != 150 || cfg.Seed != 42 {
			t.Errorf("Unexpected simulation defaults: %+v", cfg)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("PANTRY_DB_PATH", "/tmp/x.db")
		t.Setenv("PANTRY_WEEKS", "3")
		t.Setenv("PANTRY_SEED", "7")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "11, 22")
		t.Setenv("TELEGRAM_ADMIN_ID", "11")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/x.db" || cfg.Weeks != 3 || cfg.Seed != 7 {
			t.Errorf("Overrides not applied: %+v", cfg)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 22 {
			t.Errorf("Expected allowed IDs [11 22], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 11 {
			t.Errorf("Expected admin ID 11, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("InvalidInteger", func(t *testing.T) {
		t.Setenv("PANTRY_CAPACITY", "lots")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric PANTRY_CAPACITY, got nil")
		}
	})

	t.Run("InvalidPantryCapacity", func(t *testing.T) {
		t.Setenv("PANTRY_CAPACITY", "-5")
		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for a negative pantry capacity, got nil")
		}
		expectedError := "PANTRY_CAPACITY must be at least 1, got -5"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidHouseholdSize", func(t *testing.T) {
		t.Setenv("PANTRY_HOUSEHOLD_SIZE", "0")
		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for an empty household, got nil")
		}
		expectedError := "PANTRY_HOUSEHOLD_SIZE must be at least 1, got 0"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://bot.test/webhook"}

	err := cfg.ValidateBot()
	expectedError := "TELEGRAM_ALLOWED_USER_IDS environment variable not set"
	if err == nil || err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%v'", expectedError, err)
	}

	cfg.TelegramAllowedUserIDs = []int64{1}
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cfg.TelegramBotToken = ""
	if err := cfg.ValidateBot(); err == nil {
		t.Error("Expected an error for a missing token")
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dotenv_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(path, []byte("PANTRY_RUN_ID=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Setenv("PANTRY_RUN_ID", "")
	os.Unsetenv("PANTRY_RUN_ID")

	LoadDotEnv(path)
	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.RunID != "from-dotenv" {
		t.Errorf("Expected RunID to be 'from-dotenv', got '%s'", cfg.RunID)
	}

	t.Run("MissingFile", func(t *testing.T) {
		LoadDotEnv(filepath.Join(tmpDir, "missing.env"))
	})
}
