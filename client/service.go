// Package client implements the request façade core: named services with
// immutable defaults, request/response interceptor chains, and abortable
// dispatch against a pluggable transport.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/apikit/errors"
	"github.com/kochabx/apikit/log"
	"github.com/kochabx/apikit/metrics"
)

// Service is a configured binding of a base URL, default headers/options and
// its own interceptor chains. The defaults are fixed at construction time;
// the chains are mutable by append/clear only. Safe for concurrent use.
type Service struct {
	name           string
	baseURL        string
	defaultHeaders map[string]string
	defaultOptions *Options

	// Request and Response are the service's interceptor chains; register
	// with svc.Request.Use(fn) / svc.Response.Use(fn).
	Request  *Chain[RequestInterceptor]
	Response *Chain[ResponseInterceptor]

	transport Doer
	logger    *log.Logger
	collector *metrics.Collector
}

// ServiceOption configures a Service at construction time.
type ServiceOption func(*Service)

// WithDefaultHeaders sets headers applied to every request. The map is
// copied; later mutation of the argument has no effect.
func WithDefaultHeaders(headers map[string]string) ServiceOption {
	return func(s *Service) {
		s.defaultHeaders = make(map[string]string, len(headers))
		maps.Copy(s.defaultHeaders, headers)
	}
}

// WithDefaultOptions sets options merged under every per-call option.
// The options are cloned; later mutation of the argument has no effect.
func WithDefaultOptions(opts *Options) ServiceOption {
	return func(s *Service) {
		s.defaultOptions = opts.Clone()
	}
}

// WithTransport sets the transport executing the service's requests.
func WithTransport(transport Doer) ServiceOption {
	return func(s *Service) {
		s.transport = transport
	}
}

// WithLogger sets the logger for dispatch/settlement events.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCollector attaches a metrics collector.
func WithCollector(collector *metrics.Collector) ServiceOption {
	return func(s *Service) {
		s.collector = collector
	}
}

// NewService creates a Service with fresh, empty interceptor chains.
func NewService(name, baseURL string, opts ...ServiceOption) *Service {
	s := &Service{
		name:      name,
		baseURL:   baseURL,
		Request:   &Chain[RequestInterceptor]{},
		Response:  &Chain[ResponseInterceptor]{},
		transport: defaultTransport,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.G
	}

	return s
}

// Name returns the service name.
func (s *Service) Name() string {
	return s.name
}

// BaseURL returns the service base URL.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// Get dispatches a GET request to endpoint.
func (s *Service) Get(ctx context.Context, endpoint string, opts ...CallOption) *Result {
	return s.dispatch(ctx, http.MethodGet, endpoint, nil, opts)
}

// Delete dispatches a DELETE request to endpoint.
func (s *Service) Delete(ctx context.Context, endpoint string, opts ...CallOption) *Result {
	return s.dispatch(ctx, http.MethodDelete, endpoint, nil, opts)
}

// Post dispatches a POST request; a non-nil body is JSON-encoded.
func (s *Service) Post(ctx context.Context, endpoint string, body any, opts ...CallOption) *Result {
	return s.dispatch(ctx, http.MethodPost, endpoint, body, opts)
}

// Put dispatches a PUT request; a non-nil body is JSON-encoded.
func (s *Service) Put(ctx context.Context, endpoint string, body any, opts ...CallOption) *Result {
	return s.dispatch(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch dispatches a PATCH request; a non-nil body is JSON-encoded.
func (s *Service) Patch(ctx context.Context, endpoint string, body any, opts ...CallOption) *Result {
	return s.dispatch(ctx, http.MethodPatch, endpoint, body, opts)
}

// Do dispatches a request with an arbitrary method. The body is only
// serialized for the body-carrying verbs (POST, PUT, PATCH).
func (s *Service) Do(ctx context.Context, method, endpoint string, body any, opts ...CallOption) *Result {
	return s.dispatch(ctx, method, endpoint, body, opts)
}

// dispatch starts the request and returns immediately with its pending
// Result. Every call gets its own cancel context derived from the caller's;
// the caller keeps direct cancellation through its own context, Abort covers
// the rest.
func (s *Service) dispatch(ctx context.Context, method, endpoint string, body any, opts []CallOption) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithCancel(ctx)

	result := newResult(cancel, s.name, method, s.collector)
	requestID := uuid.NewString()
	started := time.Now()

	s.collector.RequestStarted(s.name, method)
	s.logger.Debug().
		Str("request_id", requestID).
		Str("service", s.name).
		Str("method", method).
		Str("endpoint", endpoint).
		Msg("dispatching request")

	go func() {
		resp, err := s.roundTrip(callCtx, method, endpoint, body, opts)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		s.collector.RequestSettled(s.name, method, status, time.Since(started))

		if err != nil {
			s.logger.Debug().
				Str("request_id", requestID).
				Str("service", s.name).
				Err(err).
				Msg("request rejected")
		} else {
			s.logger.Debug().
				Str("request_id", requestID).
				Str("service", s.name).
				Int("status", status).
				Msg("request settled")
		}

		result.settle(resp, err)
	}()

	return result
}

// roundTrip runs the full pipeline: merge options, fold them through the
// request chain, execute the transport, and materialize the response
// through the response chain.
func (s *Service) roundTrip(ctx context.Context, method, endpoint string, body any, opts []CallOption) (*Response, error) {
	options, err := s.buildOptions(ctx, method, body, opts)
	if err != nil {
		return nil, err
	}

	raw, err := s.execute(ctx, options, endpoint)
	if err != nil {
		return nil, err
	}

	return materialize(ctx, raw, s.Response.List())
}

// buildOptions assembles the final request options. Precedence, later wins:
// service default options → per-call options → forced method → headers
// (service defaults merged with per-call, per-call winning on conflict).
// The result is then folded through the request chain in registration
// order, normalizing any alternate header representation after every step.
func (s *Service) buildOptions(ctx context.Context, method string, body any, callOpts []CallOption) (*Options, error) {
	options := s.defaultOptions.Clone()

	perCall := &Options{}
	for _, opt := range callOpts {
		opt(perCall)
	}

	options.Method = method

	headers := make(map[string]string, len(s.defaultHeaders)+len(perCall.Headers))
	maps.Copy(headers, options.Headers)
	maps.Copy(headers, s.defaultHeaders)
	maps.Copy(headers, perCall.Headers)
	options.Headers = headers

	if len(perCall.Query) > 0 {
		if options.Query == nil {
			options.Query = make(url.Values)
		}
		for k, vs := range perCall.Query {
			options.Query[k] = append([]string(nil), vs...)
		}
	}

	if body != nil && carriesBody(method) {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, 400, "encode request body")
		}
		options.Body = encoded
		if _, ok := options.Headers[HeaderContentType]; !ok {
			options.Headers[HeaderContentType] = ContentTypeJSON
		}
	}

	for _, fn := range s.Request.List() {
		next, err := fn(ctx, options)
		if err != nil {
			return nil, err
		}
		if next != nil {
			options = next
		}
		if err := options.normalize(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

// execute hands the final options to the transport.
func (s *Service) execute(ctx context.Context, options *Options, endpoint string) (*http.Response, error) {
	target := s.buildURL(endpoint, options.Query)

	var bodyReader io.Reader
	if options.Body != nil {
		bodyReader = bytes.NewReader(options.Body)
	}

	req, err := http.NewRequestWithContext(ctx, options.Method, target, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, 400, "build request %s %s", options.Method, target)
	}
	for k, v := range options.Headers {
		req.Header.Set(k, v)
	}

	raw, err := s.transport.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Aborted(err)
		}
		return nil, errors.Wrap(err, 502, "%s %s", options.Method, target)
	}

	return raw, nil
}

// buildURL joins endpoint onto the base URL: a leading slash concatenates
// directly, otherwise one separator is inserted. Deliberately minimal — no
// duplicate-slash collapsing or further normalization. Query values, when
// present, are appended.
func (s *Service) buildURL(endpoint string, query url.Values) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	if !strings.HasPrefix(endpoint, "/") {
		b.WriteByte('/')
	}
	b.WriteString(endpoint)

	if len(query) > 0 {
		if strings.Contains(endpoint, "?") {
			b.WriteByte('&')
		} else {
			b.WriteByte('?')
		}
		b.WriteString(query.Encode())
	}

	return b.String()
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
