package generation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultLoadDelay mimics the time a local model takes to load.
const DefaultLoadDelay = 2 * time.Second

// StubBackend is a local placeholder model. It goes through the same
// load/generate lifecycle as a real on-device model but always answers with
// a canned narrative. It serves one load at a time and rejects concurrent
// load requests while loading.
type StubBackend struct {
	mu        sync.Mutex
	modelID   string
	loaded    bool
	loading   bool
	lastErr   error
	loadDelay time.Duration
	autoLoad  bool
	response  string
	logger    *zap.Logger
}

// StubOption configures a StubBackend.
type StubOption func(*StubBackend)

// WithLoadDelay overrides the simulated load time.
func WithLoadDelay(d time.Duration) StubOption {
	return func(s *StubBackend) { s.loadDelay = d }
}

// WithAutoLoad makes Generate load the default model on first use.
func WithAutoLoad(enabled bool) StubOption {
	return func(s *StubBackend) { s.autoLoad = enabled }
}

// WithResponse replaces the canned narrative.
func WithResponse(text string) StubOption {
	return func(s *StubBackend) { s.response = text }
}

// WithStubLogger sets the logger.
func WithStubLogger(l *zap.Logger) StubOption {
	return func(s *StubBackend) { s.logger = l }
}

// NewStubBackend creates an unloaded stub backend.
func NewStubBackend(opts ...StubOption) *StubBackend {
	s := &StubBackend{
		loadDelay: DefaultLoadDelay,
		response:  cannedInterpretation,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load loads modelID. It is a no-op when a model is already loaded and
// returns ErrLoadInProgress when another load is running.
func (s *StubBackend) Load(ctx context.Context, modelID string) error {
	if modelID == "" {
		modelID = DefaultModelID
	}

	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		s.logger.Debug("model already loaded", zap.String("model", s.modelID))
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		s.logger.Debug("model is already loading", zap.String("model", modelID))
		return ErrLoadInProgress
	}
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info("loading model", zap.String("model", modelID))

	timer := time.NewTimer(s.loadDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.loading = false
		s.lastErr = ctx.Err()
		s.mu.Unlock()
		s.logger.Error("error loading model", zap.String("model", modelID), zap.Error(ctx.Err()))
		return unavailable("stub", ctx.Err())
	case <-timer.C:
	}

	s.mu.Lock()
	s.loaded = true
	s.loading = false
	s.modelID = modelID
	s.mu.Unlock()

	s.logger.Info("model loaded successfully", zap.String("model", modelID))
	return nil
}

// Unload drops the loaded model.
func (s *StubBackend) Unload() {
	s.mu.Lock()
	s.loaded = false
	s.modelID = ""
	s.mu.Unlock()
	s.logger.Info("model unloaded")
}

// ModelID returns the loaded model, or "" when none is loaded.
func (s *StubBackend) ModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// Generate returns the canned narrative once a model is loaded.
func (s *StubBackend) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	if !loaded {
		if !s.autoLoad {
			return "", unavailable("stub", errors.New("model not loaded"))
		}
		if err := s.Load(ctx, ""); err != nil {
			if errors.Is(err, ErrUnavailable) {
				return "", err
			}
			return "", unavailable("stub", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", failed("stub", err)
	}

	s.logger.Debug("generating text", zap.Int("prompt_bytes", len(prompt)))
	return s.response, nil
}

// Status reports the lifecycle state of the stub model.
func (s *StubBackend) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.loaded:
		return ReadyStatus()
	case s.loading:
		return LoadingStatus()
	case s.lastErr != nil:
		return UnavailableStatus(s.lastErr.Error())
	default:
		return UnavailableStatus("model not loaded")
	}
}
