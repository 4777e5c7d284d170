package llm

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
}

var config *Config

func Init(cfg *Config) {
	config = cfg
}

const (
	// DefaultEndpoint is the local inference server's generate route.
	DefaultEndpoint = "http://localhost:11434/api/generate"
	DefaultModel    = "llava"
	defaultTimeout  = 120 * time.Second

	// maxResponseTokens caps the model's reply for single-image analysis.
	maxResponseTokens = 1000
)

// DefaultPrompt is sent when the caller supplies no prompt of their own.
const DefaultPrompt = "Describe everything visible in this screenshot, including any text you can read."

// Local inference API structures
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict int `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// HTTPStatusError is a non-2xx reply from the inference server, body
// preserved verbatim.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("vision endpoint returned status %d: %s", e.Status, e.Body)
}

// Describe sends an encoded image and a prompt to the local vision model and
// returns the model's text reply. One-shot: no retry on any failure.
func Describe(imageData []byte, prompt string) (string, error) {
	if config == nil {
		return "", fmt.Errorf("LLM client not initialized")
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	request := generateRequest{
		Model:   model,
		Prompt:  prompt,
		Images:  []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream:  false,
		Options: generateOptions{NumPredict: maxResponseTokens},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPStatusError{Status: resp.StatusCode, Body: string(body)}
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("inference error: %s", response.Error)
	}

	return response.Response, nil
}
