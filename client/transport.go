package client

import (
	"net/http"
)

// Doer is the transport boundary: anything that can execute an
// *http.Request. Cancellation rides on the request context; a fired
// context must surface as an error wrapping context.Canceled.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// defaultTransport is shared by services constructed without an explicit
// transport. No client-side timeout: callers race the Result and Abort.
var defaultTransport = &http.Client{}
