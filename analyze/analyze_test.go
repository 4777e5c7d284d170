package analyze

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"capprobe/llm"
)

func TestRunNothingRequested(t *testing.T) {
	report := Run(Request{Encoded: []byte{1, 2, 3}})
	if report.OCR != nil || report.OCRErr != nil || report.LLMText != "" || report.LLMErr != nil {
		t.Errorf("empty request produced a non-empty report: %+v", report)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	// OCR fails (no model files in a scratch directory); the vision result
	// must still come through untouched.
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "two windows and a dock"})
	}))
	defer server.Close()
	llm.Init(&llm.Config{Endpoint: server.URL})

	report := Run(Request{
		Encoded: []byte{0x89, 'P', 'N', 'G'},
		RunOCR:  true,
		RunLLM:  true,
	})

	if report.OCRErr == nil {
		t.Skip("OCR models available in test environment; isolation path not exercised")
	}
	if report.LLMErr != nil {
		t.Errorf("vision step failed alongside OCR: %v", report.LLMErr)
	}
	if report.LLMText != "two windows and a dock" {
		t.Errorf("vision text = %q", report.LLMText)
	}
}

func TestRunLLMOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "a terminal"})
	}))
	defer server.Close()
	llm.Init(&llm.Config{Endpoint: server.URL})

	report := Run(Request{Encoded: []byte{1}, RunLLM: true, Prompt: "what app is this?"})
	if report.LLMErr != nil {
		t.Fatalf("vision step failed: %v", report.LLMErr)
	}
	if report.LLMText != "a terminal" {
		t.Errorf("got %q", report.LLMText)
	}
	if report.OCR != nil || report.OCRErr != nil {
		t.Error("OCR ran without being requested")
	}
}
