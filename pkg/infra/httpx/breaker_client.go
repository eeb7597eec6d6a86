package httpx

import (
	"context"
	"errors"
	"time"
)

type breakerClient struct {
	next    Client
	breaker CircuitBreaker
}

// WithBreaker wraps a client so transport errors and 5xx responses count as
// breaker failures. Once the breaker opens, calls fail fast.
func WithBreaker(next Client, name string, timeout time.Duration, maxFailures uint32) Client {
	return &breakerClient{
		next:    next,
		breaker: NewCircuitBreaker(name, timeout, maxFailures),
	}
}

func (b *breakerClient) Do(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response
	err := b.breaker.Execute(func() error {
		var err error
		resp, err = b.next.Do(ctx, req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return resp.StatusError(req.URL)
		}
		return nil
	})
	if err != nil {
		if resp != nil && errors.Is(err, ErrUpstreamStatus) {
			return resp, err
		}
		return nil, err
	}
	return resp, nil
}
