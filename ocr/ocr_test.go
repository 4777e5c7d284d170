package ocr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocateModelsReportsBothPaths(t *testing.T) {
	// Run from an empty directory so neither search location has models.
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	_, err = LocateModels()
	var notFound *ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ModelNotFoundError, got %v", err)
	}
	if notFound.Primary == "" || notFound.Fallback == "" {
		t.Errorf("error must name both attempted paths: %+v", notFound)
	}
	msg := err.Error()
	if !strings.Contains(msg, notFound.Primary) || !strings.Contains(msg, notFound.Fallback) {
		t.Errorf("message must include both attempted paths: %q", msg)
	}
	if !strings.Contains(msg, DetectionModel) || !strings.Contains(msg, RecognitionModel) {
		t.Errorf("message must name both model files: %q", msg)
	}
}

func TestLocateModelsFallbackToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{DetectionModel, RecognitionModel} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	got, err := LocateModels()
	if err != nil {
		t.Fatalf("LocateModels failed: %v", err)
	}
	if !hasModels(got) {
		t.Errorf("returned directory %q does not hold the models", got)
	}
}

func TestLocateModelsRequiresBothFiles(t *testing.T) {
	// Only one of the two model files present: still not found.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RecognitionModel), []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}
	old, _ := os.Getwd()
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	_, err := LocateModels()
	var notFound *ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ModelNotFoundError with partial models, got %v", err)
	}
}
