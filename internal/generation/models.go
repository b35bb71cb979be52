package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultModelID is loaded when no model is configured.
const DefaultModelID = "bigscience/bloom-560m"

// Model describes a model a backend can serve.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// SupportedModels returns the models known to work with the local backends.
func SupportedModels() []Model {
	return []Model{
		{ID: "bigscience/bloom-560m", Name: "BLOOM 560M", Language: "multilingual", Description: "Modèle léger multilingue"},
		{ID: "asi/gpt-fr-cased-small", Name: "GPT-FR Small", Language: "french", Description: "Petit modèle français"},
		{ID: "Helsinki-NLP/opus-mt-en-fr", Name: "OPUS MT En-Fr", Language: "french", Description: "Modèle de traduction anglais vers français"},
	}
}

// Backend names accepted by New.
const (
	BackendStub = "stub"
	BackendHTTP = "http"
	BackendNone = "none"
)

// Config selects and tunes a backend.
type Config struct {
	Backend           string
	Model             string
	Endpoint          string
	Timeout           time.Duration
	LoadDelay         time.Duration
	RequestsPerSecond float64
	MaxInFlight       int
}

// New builds the backend named by cfg.Backend.
func New(cfg Config, logger *zap.Logger) (Gateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(cfg.Backend) {
	case "", BackendStub:
		return NewStubBackend(
			WithLoadDelay(cfg.LoadDelay),
			WithAutoLoad(true),
			WithStubLogger(logger.Named("stub")),
		), nil
	case BackendHTTP:
		return NewHTTPBackend(cfg, logger.Named("http"))
	case BackendNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q: valid backends are stub, http, none", cfg.Backend)
	}
}

// Disabled is a backend that never generates. It is used when generation is
// switched off so that interpretations carry only the rule-based part.
type Disabled struct{}

// Generate always fails with ErrUnavailable.
func (Disabled) Generate(_ context.Context, _ string) (string, error) {
	return "", unavailable(BackendNone, errGenerationDisabled)
}

// Status always reports unavailable.
func (Disabled) Status() Status {
	return UnavailableStatus(errGenerationDisabled.Error())
}

var errGenerationDisabled = errors.New("generation disabled")
