package llm

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDescribeNotInitialized(t *testing.T) {
	config = nil
	_, err := Describe([]byte{1, 2, 3}, "")
	if err == nil {
		t.Error("expected error when not initialized")
	}
}

func TestDescribeSendsBase64ImageAndPrompt(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "a desktop"})
	}))
	defer server.Close()

	Init(&Config{Endpoint: server.URL, Model: "test-model"})
	imageData := []byte{0x89, 'P', 'N', 'G'}
	text, err := Describe(imageData, "what is this?")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if text != "a desktop" {
		t.Errorf("got %q", text)
	}
	if got.Model != "test-model" || got.Prompt != "what is this?" {
		t.Errorf("request carried model=%q prompt=%q", got.Model, got.Prompt)
	}
	if len(got.Images) != 1 || got.Images[0] != base64.StdEncoding.EncodeToString(imageData) {
		t.Error("image not embedded as base64")
	}
	if got.Options.NumPredict != maxResponseTokens {
		t.Errorf("response cap %d, want %d", got.Options.NumPredict, maxResponseTokens)
	}
	if got.Stream {
		t.Error("single-shot request must not stream")
	}
}

func TestDescribeDefaultPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != DefaultPrompt {
			t.Errorf("empty prompt should fall back to the default, got %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer server.Close()

	Init(&Config{Endpoint: server.URL})
	if _, err := Describe([]byte{1}, ""); err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
}

func TestDescribeSurfacesHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model exploded"))
	}))
	defer server.Close()

	Init(&Config{Endpoint: server.URL})
	_, err := Describe([]byte{1}, "p")
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", statusErr.Status)
	}
	if statusErr.Body != "model exploded" {
		t.Errorf("body must be preserved verbatim, got %q", statusErr.Body)
	}
}

func TestDescribeConnectionFailure(t *testing.T) {
	// Point at a closed port.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	Init(&Config{Endpoint: endpoint})
	_, err := Describe([]byte{1}, "p")
	if err == nil {
		t.Fatal("expected network error")
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		t.Error("connection failure must surface as a generic network error, not an HTTP status")
	}
	if !strings.Contains(err.Error(), "vision request failed") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestDescribeInferenceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	Init(&Config{Endpoint: server.URL})
	_, err := Describe([]byte{1}, "p")
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("expected inference error surfaced, got %v", err)
	}
}
