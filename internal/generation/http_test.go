package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) (*HTTPBackend, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	b, err := NewHTTPBackend(Config{
		Endpoint:          srv.URL + "/",
		Model:             "bloom",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	}, nil)
	require.NoError(t, err)
	return b, srv
}

func TestHTTPGenerateSuccess(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bloom", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "narrative", Done: true})
	})

	text, err := b.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "narrative", text)
	assert.True(t, b.Status().Ready())
	assert.Equal(t, "bloom", b.Model())
}

func TestHTTPGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model crashed", http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
		{"error field", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
		}},
		{"empty response", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Response: "  ", Done: true})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBackend(t, tt.handler)
			_, err := b.Generate(context.Background(), "hello")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFailed)
			// A failed call does not make the server unavailable.
			st := b.Status()
			assert.True(t, st.Ready())
			require.Error(t, st.LastError())
			assert.Equal(t, err.Error(), st.LastError().Error())
		})
	}
}

func TestHTTPGenerateUnreachable(t *testing.T) {
	b, srv := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := b.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
	st := b.Status()
	assert.Equal(t, StateUnavailable, st.State)
	assert.NotEmpty(t, st.Reason)
}

func TestHTTPPing(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	assert.NoError(t, b.Ping(context.Background()))
	assert.True(t, b.Status().Ready())
	assert.NoError(t, b.Status().LastError())
}

func TestHTTPStatusClearsAfterSuccess(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "model crashed", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	})

	_, err := b.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, b.Status().String(), "model crashed")

	fail.Store(false)
	_, err = b.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ReadyStatus(), b.Status())
}

func TestHTTPSerializesRequests(t *testing.T) {
	var active, peak int32
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	})

	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := b.Generate(context.Background(), "p")
			errs <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestNewHTTPBackendRejectsBadEndpoint(t *testing.T) {
	_, err := NewHTTPBackend(Config{Endpoint: "localhost:11434"}, nil)
	assert.Error(t, err)

	b, err := NewHTTPBackend(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, b.endpoint)
	assert.Equal(t, DefaultModelID, b.Model())
}
