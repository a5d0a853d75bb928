package llm

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds each request with a deadline.
// As the outermost layer it caps the whole call, retries included.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-request deadline. A non-positive
// timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) GenerateStream(ctx context.Context, req Request, fn StreamFunc) (*Response, error) {
	sp, ok := AsStreamer(t.inner)
	if !ok {
		return nil, &ErrStreamingUnsupported{Provider: t.inner.ModelID()}
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return sp.GenerateStream(ctx, req, fn)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
