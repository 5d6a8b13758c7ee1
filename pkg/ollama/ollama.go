package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Completer is the one operation the assistant needs from a model backend:
// submit prompt text, receive completion text or failure, within the
// client's bounded wait.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options are the decoding knobs forwarded to the backend. Zero values mean
// "use the client defaults".
type Options struct {
	Temperature   float64
	RepeatPenalty float64
	NumPredict    int
}

var (
	// ErrUnreachable covers timeouts, refused connections and non-2xx
	// statuses. Callers treat all of them as "no response".
	ErrUnreachable = errors.New("ollama: endpoint unreachable")
	// ErrBadPayload means the endpoint answered but not with the expected
	// generate-response body.
	ErrBadPayload = errors.New("ollama: malformed response payload")
)

type IOllama interface {
	Completer
	Model() string
}

type ollamaClient struct {
	apiURL string
	model  string
	client *http.Client
	log    *logrus.Logger
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature   float64 `json:"temperature"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func New(log *logrus.Logger) IOllama {
	apiURL := os.Getenv("OLLAMA_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:11434/api/generate"
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "mistral"
	}

	timeout := 90 * time.Second
	if raw := os.Getenv("OLLAMA_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	return &ollamaClient{
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (o *ollamaClient) Model() string {
	return o.model
}

func (o *ollamaClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.RepeatPenalty == 0 {
		opts.RepeatPenalty = 1.15
	}
	if opts.NumPredict == 0 {
		opts.NumPredict = 150
	}

	payload := generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature:   opts.Temperature,
			RepeatPenalty: opts.RepeatPenalty,
			NumPredict:    opts.NumPredict,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	o.log.WithFields(logrus.Fields{
		"api_url": o.apiURL,
		"model":   o.model,
	}).Debug("Sending generate request to Ollama")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"api_url": o.apiURL,
			"error":   err.Error(),
		}).Error("Ollama request failed")
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		o.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   truncate(string(raw), 200),
		}).Error("Ollama returned non-2xx status")
		return "", fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("%w: missing response field", ErrBadPayload)
	}

	return strings.TrimSpace(parsed.Response), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
