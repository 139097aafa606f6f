package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps net/http.Client with the transport settings the watcher
// uses for both the page fetch and webhook delivery.
type HTTPClient struct {
	client *http.Client
	config ClientConfig
	logger zerolog.Logger
}

// HTTPRequest represents an HTTP request
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    io.Reader
	Context context.Context
}

// HTTPResponse represents an HTTP response with a fully read body
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config ClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return common.NewError("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("http2_enabled", config.EnableHTTP2).
		Int64("max_content_size", config.MaxContentSize).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Do performs an HTTP request and reads the response body, honoring the
// configured body size cap.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	httpReq, err := http.NewRequest(req.Method, req.URL, req.Body)
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP request")
	}
	if req.Context != nil {
		httpReq = httpReq.WithContext(req.Context)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, common.WrapError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	bodyBytes, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string),
		Body:       bodyBytes,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			httpResp.Headers[key] = values[0]
		}
	}

	return httpResp, nil
}

// Get performs a GET request against the URL.
func (c *HTTPClient) Get(ctx context.Context, url string) (*HTTPResponse, error) {
	return c.Do(&HTTPRequest{
		URL:     url,
		Method:  http.MethodGet,
		Context: ctx,
	})
}

// PostJSON performs a POST request with an application/json payload.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, payload []byte) (*HTTPResponse, error) {
	return c.Do(&HTTPRequest{
		URL:    url,
		Method: http.MethodPost,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body:    bytes.NewReader(payload),
		Context: ctx,
	})
}

// readBody reads the response body up to the configured cap. A body over
// the cap is an error, never a truncation.
func (c *HTTPClient) readBody(body io.Reader) ([]byte, error) {
	if c.config.MaxContentSize <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, common.WrapError(err, "failed to read response body")
		}
		return data, nil
	}

	limited := io.LimitReader(body, c.config.MaxContentSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, common.WrapError(err, "failed to read response body")
	}
	if int64(len(data)) > c.config.MaxContentSize {
		return nil, common.NewError("response body exceeds %d bytes", c.config.MaxContentSize)
	}
	return data, nil
}
