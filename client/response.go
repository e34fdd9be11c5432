package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/kochabx/apikit/errors"
)

// Response is the logical response handed to response interceptors and
// returned to callers. It mirrors the raw response's metadata; JSON resolves
// to the interceptor-produced payload once the chain has run, and to the
// parsed network body otherwise. The network body is read from the wire at
// most once regardless of how many interceptors run or how many times JSON
// is called.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header

	raw          *http.Response
	payload      any
	materialized bool

	decodeOnce sync.Once
	decodeErr  error
}

func newDirectResponse(raw *http.Response) *Response {
	return &Response{
		StatusCode: raw.StatusCode,
		Status:     raw.Status,
		Header:     raw.Header,
		raw:        raw,
	}
}

func newPayloadResponse(raw *http.Response, payload any) *Response {
	return &Response{
		StatusCode:   raw.StatusCode,
		Status:       raw.Status,
		Header:       raw.Header,
		raw:          raw,
		payload:      payload,
		materialized: true,
	}
}

// Ok reports whether the status code is in the 2xx range. Non-2xx responses
// are data, not errors: they flow through the interceptor chain and it is up
// to the caller (or an interceptor) to decide how to represent failure.
func (r *Response) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON returns the logical payload. After the interceptor chain has run it
// resolves immediately to the current payload; on the fast path it parses
// the raw network body once and caches the result.
func (r *Response) JSON() (any, error) {
	if r.materialized {
		return r.payload, nil
	}

	r.decodeOnce.Do(func() {
		body, err := io.ReadAll(r.raw.Body)
		if err != nil {
			r.decodeErr = errors.Wrap(err, errors.UnknownCode, "read response body")
			return
		}
		r.raw.Body.Close()

		if len(body) == 0 {
			return
		}
		if err := json.Unmarshal(body, &r.payload); err != nil {
			r.decodeErr = errors.Wrap(err, errors.UnknownCode, "decode response body")
		}
	})

	return r.payload, r.decodeErr
}

// Decode unmarshals the logical payload into v. The payload is re-encoded
// through JSON so interceptor-produced values land in typed structs.
func (r *Response) Decode(v any) error {
	payload, err := r.JSON()
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.UnknownCode, "encode payload")
	}
	return json.Unmarshal(raw, v)
}

// Body exposes the raw network body. On the fast path this is the live
// stream and may be read exactly once; after materialization it replays
// the already-captured bytes.
func (r *Response) Body() io.ReadCloser {
	return r.raw.Body
}

// Raw returns the underlying network response.
func (r *Response) Raw() *http.Response {
	return r.raw
}

// materialize runs the response interceptor chain and produces the logical
// response.
//
// With an empty chain the raw response passes through untouched: no body
// pre-read, so streaming and one-shot-read semantics are preserved for
// callers who read the body themselves.
//
// Otherwise the body is captured once and restored on the raw response, the
// capture is parsed as JSON best-effort (parse failure means a nil payload,
// deliberately not an error, so the chain stays usable against empty or
// non-JSON bodies), and the payload is threaded through the chain: each
// interceptor sees exactly what the previous one produced.
func materialize(ctx context.Context, raw *http.Response, chain []ResponseInterceptor) (*Response, error) {
	if len(chain) == 0 {
		return newDirectResponse(raw), nil
	}

	body, err := io.ReadAll(raw.Body)
	raw.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "read response body")
	}
	raw.Body = io.NopCloser(bytes.NewReader(body))

	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = nil
		}
	}

	for _, fn := range chain {
		result, err := fn(ctx, newPayloadResponse(raw, payload))
		if err != nil {
			return nil, err
		}
		if _, skip := result.(unchanged); !skip {
			payload = result
		}
	}

	return newPayloadResponse(raw, payload), nil
}
