package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apikit/errors"
)

// capture records what the test server received.
type capture struct {
	mu      sync.Mutex
	method  string
	path    string
	headers http.Header
	body    []byte
}

func (c *capture) handler(status int, payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.headers = r.Header.Clone()
		c.body = body
		c.mu.Unlock()

		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(status)
		io.WriteString(w, payload)
	}
}

func TestEndpointJoiningIsSlashInsensitive(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL)

	_, err := svc.Get(context.Background(), "/items").Response()
	require.NoError(t, err)
	withSlash := rec.path

	_, err = svc.Get(context.Background(), "items").Response()
	require.NoError(t, err)
	withoutSlash := rec.path

	assert.Equal(t, withSlash, withoutSlash)
	assert.Equal(t, "/items", withSlash)
}

func TestPostSerializesBodyWithDefaultHeaders(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL,
		WithDefaultHeaders(map[string]string{"X-K": "v"}),
	)

	_, err := svc.Post(context.Background(), "/items", map[string]int{"a": 1}).Response()
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "v", rec.headers.Get("X-K"))
	assert.JSONEq(t, `{"a":1}`, string(rec.body))
	assert.Equal(t, ContentTypeJSON, rec.headers.Get("Content-Type"))
}

func TestGetDoesNotSerializeBody(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL)
	_, err := svc.Do(context.Background(), http.MethodGet, "/items", map[string]int{"a": 1}).Response()
	require.NoError(t, err)

	assert.Empty(t, rec.body)
}

func TestRequestInterceptorsSeeCumulativeResult(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL)

	svc.Request.Use(func(ctx context.Context, opts *Options) (*Options, error) {
		opts.SetHeader("X-First", "1")
		return opts, nil
	})
	svc.Request.Use(func(ctx context.Context, opts *Options) (*Options, error) {
		// Must observe the previous interceptor's transformation.
		if opts.Headers["X-First"] != "1" {
			t.Error("second interceptor did not see first interceptor's header")
		}
		opts.SetHeader("X-Second", "2")
		return opts, nil
	})

	_, err := svc.Get(context.Background(), "/x").Response()
	require.NoError(t, err)

	assert.Equal(t, "1", rec.headers.Get("X-First"))
	assert.Equal(t, "2", rec.headers.Get("X-Second"))
}

func TestRequestInterceptorHeaderObjectFormIsNormalized(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL)

	svc.Request.Use(func(ctx context.Context, opts *Options) (*Options, error) {
		// Return headers in the net/http representation.
		opts.Header = http.Header{}
		opts.Header.Set("X-Alt", "alt")
		return opts, nil
	})
	svc.Request.Use(func(ctx context.Context, opts *Options) (*Options, error) {
		// Downstream sees the plain mapping, never the alternate form.
		if opts.Header != nil {
			t.Error("alternate header form leaked to the next interceptor")
		}
		if opts.Headers["X-Alt"] != "alt" {
			t.Error("normalized header missing from the plain mapping")
		}
		return opts, nil
	})

	_, err := svc.Get(context.Background(), "/x").Response()
	require.NoError(t, err)
	assert.Equal(t, "alt", rec.headers.Get("X-Alt"))
}

func TestRequestInterceptorErrorRejectsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("transport must not be reached when an interceptor fails")
	}))
	defer server.Close()

	svc := NewService("demo", server.URL)
	boom := errors.Unauthorized("no token")
	svc.Request.Use(func(ctx context.Context, opts *Options) (*Options, error) {
		return nil, boom
	})

	_, err := svc.Get(context.Background(), "/x").Response()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestPerCallHeadersWinOverDefaults(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL,
		WithDefaultHeaders(map[string]string{"X-K": "default", "X-Keep": "kept"}),
	)

	_, err := svc.Get(context.Background(), "/x", WithHeader("X-K", "per-call")).Response()
	require.NoError(t, err)

	assert.Equal(t, "per-call", rec.headers.Get("X-K"))
	assert.Equal(t, "kept", rec.headers.Get("X-Keep"))
}

func TestDefaultQueryPassthrough(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	svc := NewService("demo", server.URL)
	_, err := svc.Get(context.Background(), "/x", WithQuery("page", "2")).Response()
	require.NoError(t, err)

	assert.Equal(t, "page=2", gotQuery)
}

func TestNon2xxIsDataNotError(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(404, `{"error":"missing"}`))
	defer server.Close()

	svc := NewService("demo", server.URL)
	resp, err := svc.Get(context.Background(), "/x").Response()
	require.NoError(t, err)

	assert.False(t, resp.Ok())
	assert.Equal(t, 404, resp.StatusCode)

	payload, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"error": "missing"}, payload)
}

func TestAbortBeforeSettlementRejectsWithCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	svc := NewService("demo", server.URL)
	result := svc.Get(context.Background(), "/slow")

	result.Abort()

	_, err := result.Response()
	require.Error(t, err)
	assert.True(t, errors.IsAborted(err), "expected a cancellation-kind error, got %v", err)
}

func TestAbortAfterSettlementIsNoOp(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{"ok":true}`))
	defer server.Close()

	svc := NewService("demo", server.URL)
	svc.Response.Use(func(ctx context.Context, resp *Response) (any, error) {
		return Unchanged, nil
	})

	result := svc.Get(context.Background(), "/x")
	resp, err := result.Response()
	require.NoError(t, err)

	result.Abort()

	// The already-settled outcome is unchanged.
	again, err := result.Response()
	require.NoError(t, err)
	assert.Same(t, resp, again)

	payload, err := again.JSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, payload)
}

func TestCallerContextCancelsRequest(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService("demo", server.URL)
	result := svc.Get(ctx, "/slow")

	<-started
	cancel()

	_, err := result.Response()
	require.Error(t, err)
	assert.True(t, errors.IsAborted(err))
}

func TestDoneRacesExternalTimer(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	svc := NewService("demo", server.URL)
	result := svc.Get(context.Background(), "/x")

	select {
	case <-result.Done():
	case <-time.After(5 * time.Second):
		result.Abort()
		t.Fatal("request did not settle in time")
	}
}

func TestTransportFailureWrapsCause(t *testing.T) {
	svc := NewService("demo", "http://127.0.0.1:0")
	_, err := svc.Get(context.Background(), "/x").Response()
	require.Error(t, err)

	var ae *errors.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 502, ae.GetCode())
	assert.False(t, errors.IsAborted(err))
}

func TestCustomTransport(t *testing.T) {
	var gotURL string
	svc := NewService("demo", "https://api.example.com",
		WithTransport(DoerFunc(func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			rec := httptest.NewRecorder()
			rec.WriteString(`{"stub":true}`)
			return rec.Result(), nil
		})),
	)

	var payload struct {
		Stub bool `json:"stub"`
	}
	require.NoError(t, svc.Get(context.Background(), "/items").Decode(&payload))
	assert.True(t, payload.Stub)
	assert.Equal(t, "https://api.example.com/items", gotURL)
}

func TestDefaultOptionsAreImmutable(t *testing.T) {
	rec := &capture{}
	server := httptest.NewServer(rec.handler(200, `{}`))
	defer server.Close()

	headers := map[string]string{"X-K": "v"}
	svc := NewService("demo", server.URL, WithDefaultHeaders(headers))

	// Mutating the caller's map after registration has no effect.
	headers["X-K"] = "mutated"

	_, err := svc.Get(context.Background(), "/x").Response()
	require.NoError(t, err)
	assert.Equal(t, "v", rec.headers.Get("X-K"))
}

func TestConcurrentRequestsShareNoState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"path": r.URL.Path})
	}))
	defer server.Close()

	svc := NewService("demo", server.URL)
	svc.Response.Use(func(ctx context.Context, resp *Response) (any, error) {
		return Unchanged, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := "/item-" + string(rune('a'+i))
			var payload struct {
				Path string `json:"path"`
			}
			if err := svc.Get(context.Background(), path).Decode(&payload); err != nil {
				t.Error(err)
				return
			}
			if payload.Path != path {
				t.Errorf("got %q, want %q", payload.Path, path)
			}
		}(i)
	}
	wg.Wait()
}
