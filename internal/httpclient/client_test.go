package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mutate func(*ClientConfig)) *HTTPClient {
	t.Helper()
	cfg := DefaultClientConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := NewHTTPClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestHTTPClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-value", r.Header.Get("X-Test-Header"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, func(cfg *ClientConfig) {
		cfg.UserAgent = "test-agent"
	})

	req := &HTTPRequest{
		URL:    server.URL,
		Method: "GET",
		Headers: map[string]string{
			"X-Test-Header": "test-value",
		},
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>ok</html>", string(resp.Body))
	assert.Equal(t, "text/html", resp.Headers["Content-Type"])
	assert.True(t, resp.IsSuccess())
}

func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		_, _ = w.Write([]byte("page body"))
	}))
	defer server.Close()

	client := newTestClient(t, nil)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "page body", string(resp.Body))
}

func TestHTTPClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "hello", payload["text"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"received":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil)

	resp, err := client.PostJSON(context.Background(), server.URL, []byte(`{"text":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"received":true}`, string(resp.Body))
}

func TestHTTPClient_Redirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/final", http.StatusFound)
		} else if r.URL.Path == "/final" {
			fmt.Fprint(w, "ok")
		}
	}))
	defer ts.Close()

	clientFollow := newTestClient(t, nil)
	resp, err := clientFollow.Get(context.Background(), ts.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))

	clientNoFollow := newTestClient(t, func(cfg *ClientConfig) {
		cfg.FollowRedirects = false
	})
	resp, err = clientNoFollow.Get(context.Background(), ts.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestHTTPClient_MaxContentSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this response body is well over the configured cap"))
	}))
	defer server.Close()

	client := newTestClient(t, func(cfg *ClientConfig) {
		cfg.MaxContentSize = 10
	})

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 10 bytes")
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
}

func TestHTTPResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{199, false},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &HTTPResponse{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "status %d", tt.statusCode)
	}
}
