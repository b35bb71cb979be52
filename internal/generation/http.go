package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Defaults for the HTTP backend.
const (
	DefaultEndpoint          = "http://localhost:11434"
	DefaultHTTPTimeout       = 60 * time.Second
	DefaultRequestsPerSecond = 1.0
	DefaultMaxInFlight       = 1
)

// HTTPBackend talks to an Ollama-compatible text-generation server.
// Requests are paced by a token bucket and capped by an in-flight
// semaphore so a single-model server is never asked to serve in parallel.
type HTTPBackend struct {
	endpoint string
	model    string
	client   *http.Client
	limiter  *rate.Limiter
	inFlight chan struct{}
	logger   *zap.Logger

	mu      sync.Mutex
	lastErr error
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewHTTPBackend creates an HTTP backend from cfg, filling in defaults.
func NewHTTPBackend(cfg Config, logger *zap.Logger) (*HTTPBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("invalid generation endpoint %q: must start with http:// or https://", cfg.Endpoint)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModelID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	return &HTTPBackend{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		inFlight: make(chan struct{}, maxInFlight),
		logger:   logger,
	}, nil
}

// Generate posts the prompt to {endpoint}/api/generate.
// Transport errors map to ErrUnavailable, server or decoding errors to ErrFailed.
func (b *HTTPBackend) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case b.inFlight <- struct{}{}:
		defer func() { <-b.inFlight }()
	case <-ctx.Done():
		return "", b.record(unavailable(BackendHTTP, ctx.Err()))
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return "", b.record(unavailable(BackendHTTP, err))
	}

	body, err := json.Marshal(generateRequest{Model: b.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", b.record(failed(BackendHTTP, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", b.record(failed(BackendHTTP, err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return "", b.record(unavailable(BackendHTTP, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", b.record(failed(BackendHTTP, fmt.Errorf("reading response: %w", err)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", b.record(failed(BackendHTTP, fmt.Errorf("server returned %d: %s", resp.StatusCode, truncate(string(raw), 200))))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", b.record(failed(BackendHTTP, fmt.Errorf("decoding response: %w", err)))
	}
	if out.Error != "" {
		return "", b.record(failed(BackendHTTP, errors.New(out.Error)))
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", b.record(failed(BackendHTTP, errors.New("empty response")))
	}

	b.logger.Debug("generation completed",
		zap.String("model", b.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_bytes", len(out.Response)))

	b.record(nil)
	return out.Response, nil
}

// Ping checks that the server answers on {endpoint}/api/tags.
func (b *HTTPBackend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"/api/tags", nil)
	if err != nil {
		return b.record(failed(BackendHTTP, err))
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return b.record(unavailable(BackendHTTP, err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return b.record(unavailable(BackendHTTP, fmt.Errorf("server returned %d", resp.StatusCode)))
	}
	return b.record(nil)
}

// Status reports unavailable after a transport failure. After a failed
// call the server is still ready and the reason carries the failure.
func (b *HTTPBackend) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.lastErr == nil:
		return ReadyStatus()
	case errors.Is(b.lastErr, ErrUnavailable):
		return UnavailableStatus(b.lastErr.Error())
	default:
		return Status{State: StateReady, Reason: b.lastErr.Error()}
	}
}

// Model returns the model name sent with each request.
func (b *HTTPBackend) Model() string {
	return b.model
}

func (b *HTTPBackend) record(err error) error {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	if err != nil {
		b.logger.Warn("generation request failed", zap.Error(err))
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
