package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/core/brand"
	"github.com/namelens/namesmith/internal/core/engine"
	apperrors "github.com/namelens/namesmith/internal/errors"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
)

// API limits.
const (
	DefaultMaxBatchNames = 100
	DefaultMaxBodyBytes  = 1 << 20
	maxScoreNames        = 100
)

// NameGenerator runs a generation request.
type NameGenerator interface {
	Generate(ctx context.Context, req engine.GenerateRequest) ([]core.NameCandidate, error)
}

// GeneratorSource resolves a generator for an optional model override.
type GeneratorSource interface {
	Generator(model string, skipDomains bool) (NameGenerator, error)
}

// DomainChecker checks names and single domains.
type DomainChecker interface {
	CheckAvailability(ctx context.Context, name string) *core.DomainAvailabilityResult
	CheckSingleDomain(ctx context.Context, domain string) *core.DomainCheck
}

// BatchChecker checks many names in rate-limited groups.
type BatchChecker interface {
	Check(ctx context.Context, names []string) []*core.DomainAvailabilityResult
}

// API serves the /v1 name and domain endpoints. A nil Generators disables
// generation with 503 responses.
type API struct {
	Generators    GeneratorSource
	Domains       DomainChecker
	Batch         BatchChecker
	MaxBatchNames int
	MaxBodyBytes  int64
	Logger        observability.Logger
}

// GenerateBody is the POST /v1/names/generate request.
type GenerateBody struct {
	engine.GenerateRequest
	Model       string `json:"model,omitempty"`
	SkipDomains bool   `json:"skip_domains,omitempty"`
}

// GenerateResponse lists ranked candidates.
type GenerateResponse struct {
	Candidates []core.NameCandidate `json:"candidates"`
}

// NamesBody carries a list of names.
type NamesBody struct {
	Names []string `json:"names"`
}

// ScoreResult is one scored name.
type ScoreResult struct {
	Name     string                    `json:"name"`
	Analysis core.BrandabilityAnalysis `json:"analysis"`
}

// ScoreResponse lists scored names in request order.
type ScoreResponse struct {
	Scores []ScoreResult `json:"scores"`
}

// BatchResponse lists batch results in request order with a summary.
type BatchResponse struct {
	Results []*core.DomainAvailabilityResult `json:"results"`
	Summary core.BatchSummary                `json:"summary"`
}

// Routes mounts the API on r.
func (a *API) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/names/generate", instrument("generate", a.GenerateHandler))
		r.Post("/names/score", instrument("score", a.ScoreHandler))
		r.Get("/domains/{name}", instrument("domain", a.DomainHandler))
		r.Post("/domains/batch", instrument("batch", a.BatchHandler))
	})
}

// instrument counts each operation by outcome; 4xx and 5xx are failures.
func instrument(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ok := status < http.StatusBadRequest
		metrics.RecordOperation(operation, ok)
		if !ok {
			metrics.RecordOperationError(operation, http.StatusText(status))
		}
	}
}

// GenerateHandler generates and enriches candidates.
func (a *API) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var body GenerateBody
	if err := a.decode(w, r, &body); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid request body"))
		return
	}

	req, err := body.GenerateRequest.Normalize()
	if err != nil {
		respondWithError(w, r, apperrors.FromGenerateError(r.Context(), err))
		return
	}

	if a.Generators == nil {
		respondWithError(w, r, apperrors.NewServiceUnavailableError("name generation is not configured"))
		return
	}
	generator, err := a.Generators.Generator(strings.TrimSpace(body.Model), body.SkipDomains)
	if err != nil {
		respondWithError(w, r, apperrors.Wrap(r.Context(), apperrors.CodeServiceUnavailable, err, "no completion provider available"))
		return
	}

	candidates, err := generator.Generate(r.Context(), req)
	if err != nil {
		a.logger().Warn("Name generation failed", zap.Error(err))
		respondWithError(w, r, apperrors.FromGenerateError(r.Context(), err))
		return
	}
	writeJSON(w, GenerateResponse{Candidates: candidates})
}

// ScoreHandler scores names locally.
func (a *API) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	names, ok := a.decodeNames(w, r, maxScoreNames)
	if !ok {
		return
	}

	scores := make([]ScoreResult, 0, len(names))
	for _, name := range names {
		scores = append(scores, ScoreResult{Name: name, Analysis: brand.Analyze(name)})
	}
	writeJSON(w, ScoreResponse{Scores: scores})
}

// DomainHandler checks a name across the configured extensions, or a single
// domain when the path value contains a dot.
func (a *API) DomainHandler(w http.ResponseWriter, r *http.Request) {
	if a.Domains == nil {
		respondWithError(w, r, apperrors.NewServiceUnavailableError("domain checking is not configured"))
		return
	}

	name := strings.Trim(strings.TrimSpace(chi.URLParam(r, "name")), ".")
	if name == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("name is required"))
		return
	}

	var result *core.DomainAvailabilityResult
	if strings.Contains(name, ".") {
		domain := core.SanitizeDomain(name)
		if domain == "" {
			respondWithError(w, r, apperrors.NewInvalidInputError("domain has no valid name or extension"))
			return
		}
		result = core.SingleDomainResult(a.Domains.CheckSingleDomain(r.Context(), domain))
	} else {
		result = a.Domains.CheckAvailability(r.Context(), name)
	}
	writeJSON(w, result)
}

// BatchHandler checks many names in rate-limited groups.
func (a *API) BatchHandler(w http.ResponseWriter, r *http.Request) {
	if a.Batch == nil {
		respondWithError(w, r, apperrors.NewServiceUnavailableError("batch checking is not configured"))
		return
	}

	names, ok := a.decodeNames(w, r, a.maxBatchNames())
	if !ok {
		return
	}

	results := a.Batch.Check(r.Context(), names)
	writeJSON(w, BatchResponse{Results: results, Summary: core.Summarize(results)})
}

func (a *API) decodeNames(w http.ResponseWriter, r *http.Request, limit int) ([]string, bool) {
	var body NamesBody
	if err := a.decode(w, r, &body); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid request body"))
		return nil, false
	}

	names := make([]string, 0, len(body.Names))
	for _, raw := range body.Names {
		if name := strings.TrimSpace(raw); name != "" {
			names = append(names, name)
		}
	}
	switch {
	case len(names) == 0:
		respondWithError(w, r, apperrors.NewInvalidInputError("at least one name is required"))
		return nil, false
	case len(names) > limit:
		respondWithError(w, r, apperrors.NewInvalidInputError(fmt.Sprintf("at most %d names are allowed", limit)))
		return nil, false
	}
	return names, true
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	limit := a.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return stderrors.New("request body is empty")
		}
		return err
	}
	return nil
}

func (a *API) maxBatchNames() int {
	if a.MaxBatchNames > 0 {
		return a.MaxBatchNames
	}
	return DefaultMaxBatchNames
}

func (a *API) logger() observability.Logger {
	return observability.Or(a.Logger)
}
