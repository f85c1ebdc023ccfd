package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leetloop/leetloop/internal/llm"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
)

const (
	// DefaultBatchSize caps the number of problems sent in one batch request.
	DefaultBatchSize = 15
	// individualThreshold is the largest input analysed with one call per problem.
	individualThreshold = 5
	// maxIndividualFallback bounds the per-problem calls made after a failed batch.
	maxIndividualFallback = 10
)

// LLMAnalyzer analyses problems through an llm.Provider.
type LLMAnalyzer struct {
	provider  llm.Provider
	batchSize int
	now       func() time.Time
}

type LLMOption func(*LLMAnalyzer)

func WithBatchSize(n int) LLMOption {
	return func(a *LLMAnalyzer) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) LLMOption {
	return func(a *LLMAnalyzer) { a.now = now }
}

func NewLLMAnalyzer(provider llm.Provider, opts ...LLMOption) *LLMAnalyzer {
	a := &LLMAnalyzer{
		provider:  provider,
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze sends small inputs one problem per call and larger ones as a single
// de-duplicated batch. A failed batch falls back to per-problem calls, and a
// failed per-problem call falls back to a deterministic analysis.
func (a *LLMAnalyzer) Analyze(ctx context.Context, inputs []SubmissionInput) ([]Result, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx).WithPrefix("analyzer")
	now := a.now()

	if len(inputs) <= individualThreshold {
		log.Debug("analyzing %d problems individually", len(inputs))
		return a.analyzeEach(ctx, inputs, now)
	}

	unique := dedupe(inputs)
	if len(unique) > a.batchSize {
		unique = unique[:a.batchSize]
	}

	log.Info("analyzing batch of %d problems (%d submitted)", len(unique), len(inputs))
	results, err := a.analyzeBatch(ctx, unique, now)
	if err == nil {
		return results, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	log.Warn("batch analysis failed, falling back to individual analysis: %v", err)
	if len(unique) > maxIndividualFallback {
		unique = unique[:maxIndividualFallback]
	}
	return a.analyzeEach(ctx, unique, now)
}

func (a *LLMAnalyzer) analyzeEach(ctx context.Context, inputs []SubmissionInput, now time.Time) ([]Result, error) {
	log := logger.FromContext(ctx).WithPrefix("analyzer")
	results := make([]Result, 0, len(inputs))

	for i, in := range inputs {
		res, err := a.analyzeOne(ctx, in, now)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			log.Warn("analysis of %q failed, using fallback: %v", in.Problem, err)
			res = Fallback(in, i, now)
		}
		results = append(results, res)
	}
	return results, nil
}

func (a *LLMAnalyzer) analyzeOne(ctx context.Context, in SubmissionInput, now time.Time) (Result, error) {
	raw, err := a.generate(ctx, singleRequest(in, now))
	if err != nil {
		return Result{}, err
	}
	return normalize(raw[0], in, models.AnalysisSourceLLM, now), nil
}

func (a *LLMAnalyzer) analyzeBatch(ctx context.Context, inputs []SubmissionInput, now time.Time) ([]Result, error) {
	raw, err := a.generate(ctx, batchRequest(inputs, now))
	if err != nil {
		return nil, err
	}

	byName := make(map[string]SubmissionInput, len(inputs))
	for _, in := range inputs {
		byName[problemKey(in.Problem)] = in
	}

	results := make([]Result, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		key := problemKey(r.Problem)
		in, ok := byName[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, normalize(r, in, models.AnalysisSourceLLM, now))
	}
	if len(results) == 0 {
		return nil, &ErrMalformedOutput{Err: errors.New("batch output matched no submitted problem")}
	}
	return results, nil
}

// generate calls the provider and decodes its output. Output rejected by the
// provider for schema or length reasons is still salvaged when possible.
func (a *LLMAnalyzer) generate(ctx context.Context, req llm.Request) ([]RawAnalysis, error) {
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		partial, ok := llm.PartialContent(err)
		if !ok {
			return nil, err
		}
		items, perr := ParseAnalyses(string(partial))
		if perr != nil {
			return nil, errors.Join(err, perr)
		}
		logger.FromContext(ctx).WithPrefix("analyzer").Debug("salvaged %d analyses from rejected output", len(items))
		return items, nil
	}
	return ParseAnalyses(string(resp.Content))
}

func dedupe(inputs []SubmissionInput) []SubmissionInput {
	seen := make(map[string]bool, len(inputs))
	out := make([]SubmissionInput, 0, len(inputs))
	for _, in := range inputs {
		key := problemKey(in.Problem)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, in)
	}
	return out
}

func problemKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
