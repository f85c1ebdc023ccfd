package llm

import (
	"context"
	"time"

	"github.com/leetloop/leetloop/internal/logger"
)

type loggingProvider struct {
	inner Provider
}

// WithLogging logs latency, token usage and failures of every call.
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContext(ctx).WithPrefix("llm").WithField("model", l.inner.ModelID())
	if req.Schema != nil {
		log = log.WithField("schema", req.Schema.Name)
	}

	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("generate failed after %v: %v", elapsed, err)
		return nil, err
	}
	log.Debug("generate ok in %v (in=%d out=%d tokens)", elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
