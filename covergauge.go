package covergauge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/covergauge/covergauge/assess"
	"github.com/covergauge/covergauge/extract"
	"github.com/covergauge/covergauge/llm"
	"github.com/covergauge/covergauge/textproc"
	"github.com/google/uuid"
)

// Version is reported by the HTTP info and health surfaces.
const Version = "2.0.0"

// Engine is the main entry point for coverage analysis.
type Engine interface {
	// Analyze runs one coverage question through extraction, prompting,
	// and validation. Completion and parse failures come back as
	// fallback assessments, never as errors; only invalid input and
	// extraction failures return an error.
	Analyze(ctx context.Context, req CoverageRequest) (*Assessment, error)
}

// CoverageRequest carries one coverage question and the two policy
// documents it is answered from.
type CoverageRequest struct {
	// PolicyPDF is the Policy Disclosure Statement document.
	PolicyPDF []byte
	// SchedulePDF is the Schedule of Coverage document.
	SchedulePDF []byte
	// InsuranceType names the product line, e.g. "home" or "travel".
	InsuranceType string
	// Question is the policyholder's coverage question.
	Question string
}

// Assessment is the validated outcome of one analysis.
type Assessment struct {
	ID          string `json:"analysis_id"`
	Score       int    `json:"score"`
	Band        string `json:"band"`
	Explanation string `json:"explanation"`
}

// Option overrides a dependency the constructor would otherwise
// assemble from config.
type Option func(*engine)

// WithProvider replaces the completion provider.
func WithProvider(p llm.Provider) Option {
	return func(e *engine) { e.provider = p }
}

// WithExtractor replaces the default PDF extraction chain.
func WithExtractor(x extract.Extractor) Option {
	return func(e *engine) { e.extractor = x }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg       Config
	extractor extract.Extractor
	provider  llm.Provider
}

// New creates a coverage analysis engine from the given configuration.
func New(cfg Config, opts ...Option) (Engine, error) {
	e := &engine{cfg: cfg}
	for _, o := range opts {
		o(e)
	}

	if e.extractor == nil {
		e.extractor = extract.NewChain(extract.NewFitz(), extract.NewNative(), cfg.Extract.MinTextChars)
	}

	if e.provider == nil {
		if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		p, err := llm.NewOpenAI(llm.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Timeout:     cfg.OpenAI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating completion provider: %w", err)
		}
		e.provider = p
	}

	return e, nil
}

// Analyze runs the full pipeline for one request.
func (e *engine) Analyze(ctx context.Context, req CoverageRequest) (*Assessment, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}
	if len(req.PolicyPDF) == 0 || len(req.SchedulePDF) == 0 {
		return nil, ErrMissingDocument
	}

	id := uuid.NewString()
	start := time.Now()

	policyText, err := e.extractor.Extract(ctx, req.PolicyPDF)
	if err != nil {
		return nil, fmt.Errorf("%w: policy disclosure: %v", ErrExtraction, err)
	}
	scheduleText, err := e.extractor.Extract(ctx, req.SchedulePDF)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule of coverage: %v", ErrExtraction, err)
	}

	slog.Info("analysis: documents extracted",
		"analysis_id", id,
		"policy_chars", len(policyText), "schedule_chars", len(scheduleText),
		"elapsed", time.Since(start).Round(time.Millisecond))

	structured := textproc.Structure(combineDocuments(policyText, scheduleText))
	prompt := assess.BuildPrompt(structured, req.Question, req.InsuranceType)
	slog.Debug("analysis: prompt built", "analysis_id", id, "prompt_chars", len(prompt))

	result := e.complete(ctx, id, prompt)

	slog.Info("analysis: complete",
		"analysis_id", id, "score", result.Score, "band", result.Band,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &Assessment{
		ID:          id,
		Score:       result.Score,
		Band:        string(result.Band),
		Explanation: result.Explanation,
	}, nil
}

// complete invokes the model once and converts its output into a
// validated result. Invocation and parse failures map to their fixed
// fallbacks. No retry on any branch.
func (e *engine) complete(ctx context.Context, id, prompt string) assess.Result {
	raw, err := e.provider.Complete(ctx, assess.SystemPrompt, prompt)
	if err != nil {
		slog.Warn("analysis: completion failed, serving fallback", "analysis_id", id, "error", err)
		return assess.InvocationFallback()
	}

	parsed, err := assess.Parse(raw)
	if err != nil {
		slog.Warn("analysis: unparseable model output, serving fallback", "analysis_id", id, "error", err)
		return assess.ParseFallback()
	}

	return assess.Validate(parsed)
}

// combineDocuments labels and concatenates the two extracted texts so
// structuring and the prompt see a single document stream.
func combineDocuments(policyText, scheduleText string) string {
	return fmt.Sprintf("\n=== POLICY DISCLOSURE STATEMENT ===\n%s\n\n=== SCHEDULE OF COVERAGE ===\n%s\n", policyText, scheduleText)
}
