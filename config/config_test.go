package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VISION_ENDPOINT", "")
	t.Setenv("VISION_MODEL", "")
	t.Setenv("ENABLE_FILE_LOGGING", "")
	t.Setenv("JPEG_QUALITY", "")
	t.Setenv("CAPTURE_TIMEOUT_MS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnableFileLogging {
		t.Error("file logging should default off")
	}
	if cfg.CaptureTimeout != defaultCaptureTimeout {
		t.Errorf("timeout = %v, want %v", cfg.CaptureTimeout, defaultCaptureTimeout)
	}
	if cfg.JPEGQuality != 0 {
		t.Errorf("quality = %d, want 0 (encoder default)", cfg.JPEGQuality)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VISION_ENDPOINT", "http://localhost:9999/api/generate")
	t.Setenv("VISION_MODEL", "llava:13b")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("JPEG_QUALITY", "90")
	t.Setenv("CAPTURE_TIMEOUT_MS", "2500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VisionEndpoint != "http://localhost:9999/api/generate" {
		t.Errorf("endpoint = %q", cfg.VisionEndpoint)
	}
	if cfg.VisionModel != "llava:13b" {
		t.Errorf("model = %q", cfg.VisionModel)
	}
	if !cfg.EnableFileLogging {
		t.Error("file logging should be enabled")
	}
	if cfg.JPEGQuality != 90 {
		t.Errorf("quality = %d, want 90", cfg.JPEGQuality)
	}
	if cfg.CaptureTimeout != 2500*time.Millisecond {
		t.Errorf("timeout = %v, want 2.5s", cfg.CaptureTimeout)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("JPEG_QUALITY", "high")
	t.Setenv("CAPTURE_TIMEOUT_MS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.JPEGQuality != 0 {
		t.Errorf("quality = %d, want 0", cfg.JPEGQuality)
	}
	if cfg.CaptureTimeout != defaultCaptureTimeout {
		t.Errorf("timeout = %v, want default", cfg.CaptureTimeout)
	}
}
