package httpx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 512
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultReadBufferSize      = 4096
	DefaultWriteBufferSize     = 4096
	DefaultMaxResponseBodySize = 10 * 1024 * 1024
)

var ErrUpstreamStatus = errors.New("upstream returned non-2xx status")

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError wraps ErrUpstreamStatus with the status code and the target name.
func (r *Response) StatusError(target string) error {
	return fmt.Errorf("%s: %w: %d", target, ErrUpstreamStatus, r.StatusCode)
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=http_client_mock.go --case=underscore

type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

type FastHTTPClientOptions struct {
	Timeout             time.Duration
	InsecureSkipVerify  bool
	MaxConnsPerHost     int
	MaxIdleConnDuration time.Duration
	ReadBufferSize      int
	WriteBufferSize     int
	MaxResponseBodySize int
	UserAgent           string
}

type FastHTTPClientOption func(*FastHTTPClientOptions)

func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.Timeout = timeout
	}
}

func WithInsecureSkipVerify(skip bool) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.InsecureSkipVerify = skip
	}
}

func WithMaxConnsPerHost(max int) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.MaxConnsPerHost = max
	}
}

func WithMaxResponseBodySize(size int) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.MaxResponseBodySize = size
	}
}

func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.UserAgent = userAgent
	}
}

type FastHTTPClient struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
}

func NewFastHTTPClient(opts ...FastHTTPClientOption) *FastHTTPClient {
	options := &FastHTTPClientOptions{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		ReadBufferSize:      DefaultReadBufferSize,
		WriteBufferSize:     DefaultWriteBufferSize,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     options.MaxConnsPerHost,
		MaxIdleConnDuration: options.MaxIdleConnDuration,
		ReadBufferSize:      options.ReadBufferSize,
		WriteBufferSize:     options.WriteBufferSize,
		MaxResponseBodySize: options.MaxResponseBodySize,
		ReadTimeout:         options.Timeout,
		WriteTimeout:        options.Timeout,
	}
	if options.InsecureSkipVerify {
		client.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // intentionally configurable
		}
	}

	return &FastHTTPClient{
		client:    client,
		timeout:   options.Timeout,
		userAgent: options.UserAgent,
	}
}

// Do sends the request and returns the decoded body. Non-2xx statuses are
// returned as responses, not errors.
func (c *FastHTTPClient) Do(ctx context.Context, r *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	method := r.Method
	if method == "" {
		method = fasthttp.MethodGet
	}
	req.SetRequestURI(r.URL)
	req.Header.SetMethod(method)
	req.Header.Set("Accept-Encoding", AcceptEncoding)
	if c.userAgent != "" {
		req.Header.SetUserAgent(c.userAgent)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Body) > 0 {
		req.SetBodyRaw(r.Body)
	}

	if err := c.doRequestWithContext(ctx, req, resp); err != nil {
		return nil, err
	}

	body, _, err := DecodeChain(string(resp.Header.Peek(fasthttp.HeaderContentEncoding)), resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	// resp is released on return; keep our own copy
	out := make([]byte, len(body))
	copy(out, body)

	headers := make(http.Header)
	resp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     headers,
		Body:       out,
	}, nil
}

func (c *FastHTTPClient) doRequestWithContext(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout || timeout <= 0 {
			timeout = until
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.client.DoTimeout(req, resp, timeout)
	}()

	select {
	case <-ctx.Done():
		// the request and response stay in use until DoTimeout returns
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
