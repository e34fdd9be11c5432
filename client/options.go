package client

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
)

// Options is the merged request configuration handed through the request
// interceptor chain and finally to the transport.
//
// Headers is always a materialized plain mapping so interceptors can read
// and write it uniformly. An interceptor that prefers the net/http
// representation may fill Header instead; the pipeline folds it back into
// Headers before the next interceptor runs.
type Options struct {
	Method  string
	Headers map[string]string
	Header  http.Header
	Query   url.Values
	Body    []byte
}

// Clone returns a deep copy. Header and Query values are copied so the
// original is never aliased.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}

	c := &Options{
		Method: o.Method,
	}
	if o.Headers != nil {
		c.Headers = make(map[string]string, len(o.Headers))
		maps.Copy(c.Headers, o.Headers)
	}
	if o.Header != nil {
		c.Header = o.Header.Clone()
	}
	if o.Query != nil {
		c.Query = make(url.Values, len(o.Query))
		for k, vs := range o.Query {
			c.Query[k] = append([]string(nil), vs...)
		}
	}
	if o.Body != nil {
		c.Body = append([]byte(nil), o.Body...)
	}
	return c
}

// SetHeader sets a single header in the plain mapping.
func (o *Options) SetHeader(key, value string) {
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	o.Headers[key] = value
}

// normalize folds any alternate header representation back into the plain
// Headers mapping so downstream interceptors and the transport never have
// to special-case it.
func (o *Options) normalize() error {
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	if o.Header == nil {
		return nil
	}

	folded, err := NormalizeHeaders(o.Header)
	if err != nil {
		return err
	}
	maps.Copy(o.Headers, folded)
	o.Header = nil
	return nil
}

// NormalizeHeaders converts any supported header-like value into a plain
// key→value mapping. Supported forms: map[string]string, http.Header,
// map[string][]string and [][2]string. Multi-valued keys keep their first
// value, matching the single-value header model of Options.
func NormalizeHeaders(v any) (map[string]string, error) {
	switch h := v.(type) {
	case nil:
		return map[string]string{}, nil

	case map[string]string:
		out := make(map[string]string, len(h))
		maps.Copy(out, h)
		return out, nil

	case http.Header:
		return flattenValues(h), nil

	case map[string][]string:
		return flattenValues(h), nil

	case [][2]string:
		out := make(map[string]string, len(h))
		for _, pair := range h {
			if _, exists := out[pair[0]]; !exists {
				out[pair[0]] = pair[1]
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported header representation %T", v)
	}
}

func flattenValues(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// CallOption adjusts the options of a single request.
type CallOption func(*Options)

// WithHeader sets one header for this request.
func WithHeader(key, value string) CallOption {
	return func(o *Options) {
		o.SetHeader(key, value)
	}
}

// WithHeaders merges headers into this request; per-call keys win.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *Options) {
		for k, v := range headers {
			o.SetHeader(k, v)
		}
	}
}

// WithQuery adds one query parameter for this request.
func WithQuery(key, value string) CallOption {
	return func(o *Options) {
		if o.Query == nil {
			o.Query = make(url.Values)
		}
		o.Query.Add(key, value)
	}
}

// WithQueryValues merges query values into this request, replacing
// same-named parameters.
func WithQueryValues(values url.Values) CallOption {
	return func(o *Options) {
		if o.Query == nil {
			o.Query = make(url.Values)
		}
		for k, vs := range values {
			o.Query[k] = append([]string(nil), vs...)
		}
	}
}
