package client

import (
	"context"
	"sync"

	"github.com/kochabx/apikit/metrics"
)

// Result is the pending outcome of a dispatched request. It settles exactly
// once, to either a logical Response or an error, and carries the
// cancellation escape hatch for the in-flight call.
type Result struct {
	done   chan struct{}
	resp   *Response
	err    error
	cancel context.CancelFunc

	abortOnce sync.Once

	service   string
	method    string
	collector *metrics.Collector
}

func newResult(cancel context.CancelFunc, service, method string, collector *metrics.Collector) *Result {
	return &Result{
		done:      make(chan struct{}),
		cancel:    cancel,
		service:   service,
		method:    method,
		collector: collector,
	}
}

// settle records the outcome and releases waiters.
func (r *Result) settle(resp *Response, err error) {
	r.resp = resp
	r.err = err
	close(r.done)

	// A materialized response has fully consumed the network body, so the
	// internal cancel context can be released. Direct responses keep it
	// alive for the caller's body read.
	if resp == nil || resp.materialized {
		r.cancel()
	}
}

// Abort requests cancellation of the in-flight call. Cancellation is
// cooperative: the transport stops waiting and the Result rejects with a
// cancellation-kind error (see errors.IsAborted). Aborting after settlement
// is a no-op and does not alter the outcome.
func (r *Result) Abort() {
	r.abortOnce.Do(func() {
		select {
		case <-r.done:
		default:
			r.collector.RequestAborted(r.service, r.method)
		}
		r.cancel()
	})
}

// Done returns a channel closed when the result settles. Useful for racing
// against timers, since no timeout mechanism is built in.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Response blocks until the request settles and returns the outcome.
func (r *Result) Response() (*Response, error) {
	<-r.done
	return r.resp, r.err
}

// JSON blocks until the request settles and returns the logical payload —
// the value the response interceptor chain produced, never a re-invocation
// of the network.
func (r *Result) JSON() (any, error) {
	resp, err := r.Response()
	if err != nil {
		return nil, err
	}
	return resp.JSON()
}

// Decode blocks until the request settles and unmarshals the logical
// payload into v.
func (r *Result) Decode(v any) error {
	resp, err := r.Response()
	if err != nil {
		return err
	}
	return resp.Decode(v)
}
