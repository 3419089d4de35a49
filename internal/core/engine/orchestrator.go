package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink/prompt"
	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/core/brand"
	"github.com/namelens/namesmith/internal/core/parser"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
)

// Request limits.
const (
	MaxKeywords  = 5
	DefaultCount = 10
	MaxCount     = 50
)

// ErrInvalidRequest marks generate requests that fail validation.
var ErrInvalidRequest = errors.New("invalid generate request")

// GenerateRequest describes a name generation run.
type GenerateRequest struct {
	Keywords []string `json:"keywords"`
	Industry string   `json:"industry,omitempty"`
	Style    string   `json:"style,omitempty"`
	Count    int      `json:"count,omitempty"`
}

// Completer turns a prompt into completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptBuilder composes the completion prompt.
type PromptBuilder interface {
	Build(keywords []string, industry, style string, count int) string
}

// Orchestrator runs prompt, completion, parse, and enrichment for a request.
type Orchestrator struct {
	Prompts   PromptBuilder
	Completer Completer
	Domains   AvailabilityChecker
	Logger    observability.Logger
	Clock     func() time.Time
}

// Normalize trims keywords and applies the count default, returning an
// ErrInvalidRequest error when limits are exceeded.
func (r GenerateRequest) Normalize() (GenerateRequest, error) {
	keywords := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return r, fmt.Errorf("%w: at least one keyword is required", ErrInvalidRequest)
	}
	if len(keywords) > MaxKeywords {
		return r, fmt.Errorf("%w: at most %d keywords are allowed", ErrInvalidRequest, MaxKeywords)
	}

	count := r.Count
	if count == 0 {
		count = DefaultCount
	}
	if count < 1 || count > MaxCount {
		return r, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxCount)
	}

	return GenerateRequest{
		Keywords: keywords,
		Industry: strings.ToLower(strings.TrimSpace(r.Industry)),
		Style:    strings.ToLower(strings.TrimSpace(r.Style)),
		Count:    count,
	}, nil
}

// Generate returns enriched candidates sorted by the provider's
// brandability score, highest first. Only validation and completion
// failures are returned as errors.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) ([]core.NameCandidate, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if o.Completer == nil {
		return nil, errors.New("completion client is not configured")
	}
	log := observability.Or(o.Logger)

	text := o.buildPrompt(req)
	raw, err := o.Completer.Complete(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("generate names: %w", err)
	}

	parsed := parser.Parse(raw)
	metrics.RecordParseResult(parsed.Kind.String(), len(parsed.Candidates))
	log.Info("completion parsed",
		zap.String("kind", parsed.Kind.String()),
		zap.Int("candidates", len(parsed.Candidates)))

	candidates := parsed.Candidates
	if candidates == nil {
		candidates = []core.NameCandidate{}
	}
	for i := range candidates {
		o.Enrich(ctx, &candidates[i])
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BrandabilityScore > candidates[j].BrandabilityScore
	})
	return candidates, nil
}

// Enrich attaches domain availability and brandability analysis.
func (o *Orchestrator) Enrich(ctx context.Context, candidate *core.NameCandidate) {
	candidate.DomainInfo = o.checkDomains(ctx, candidate.Name)
	analysis := brand.Analyze(candidate.Name)
	candidate.Brandability = &analysis
}

func (o *Orchestrator) checkDomains(ctx context.Context, name string) (result *core.DomainAvailabilityResult) {
	defer func() {
		if r := recover(); r != nil {
			observability.Or(o.Logger).Error("domain check panicked",
				zap.String("name", name),
				zap.Any("panic", r))
			result = core.DegradedAvailability(name, o.now(), "domain availability check failed")
		}
	}()

	if o.Domains == nil {
		return core.DegradedAvailability(name, o.now(), "domain checking is not configured")
	}
	result = o.Domains.CheckAvailability(ctx, name)
	if result == nil {
		result = core.DegradedAvailability(name, o.now(), "domain availability check failed")
	}
	return result
}

func (o *Orchestrator) buildPrompt(req GenerateRequest) string {
	if o.Prompts != nil {
		return o.Prompts.Build(req.Keywords, req.Industry, req.Style, req.Count)
	}
	return prompt.BuildPrompt(req.Keywords, req.Industry, req.Style, req.Count)
}

func (o *Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now().UTC()
}
