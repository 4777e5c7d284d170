package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	VisionEndpoint    string
	VisionModel       string
	EnableFileLogging bool
	JPEGQuality       int
	CaptureTimeout    time.Duration
}

const defaultCaptureTimeout = 5 * time.Second

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}

	// If running as executable, also try the executable's directory
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		envPaths = append(envPaths, filepath.Join(execDir, ".env"))
	}

	// Try to load .env file (ignore errors if file doesn't exist)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		VisionEndpoint:    os.Getenv("VISION_ENDPOINT"),
		VisionModel:       os.Getenv("VISION_MODEL"),
		EnableFileLogging: os.Getenv("ENABLE_FILE_LOGGING") == "true",
		JPEGQuality:       getEnvInt("JPEG_QUALITY", 0),
		CaptureTimeout:    defaultCaptureTimeout,
	}

	if ms := getEnvInt("CAPTURE_TIMEOUT_MS", 0); ms > 0 {
		cfg.CaptureTimeout = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
