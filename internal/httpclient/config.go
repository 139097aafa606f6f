package httpclient

import (
	"time"
)

// ClientConfig holds configuration for the shared HTTP client
type ClientConfig struct {
	Timeout             time.Duration // Per-request timeout
	UserAgent           string        // User-Agent header, always set
	InsecureSkipVerify  bool          // Skip TLS verification
	EnableHTTP2         bool          // Enable HTTP/2 support
	FollowRedirects     bool          // Whether to follow redirects
	MaxRedirects        int           // Maximum number of redirects to follow
	MaxIdleConns        int           // Maximum idle connections
	MaxIdleConnsPerHost int           // Maximum idle connections per host
	IdleConnTimeout     time.Duration // Idle connection timeout
	TLSHandshakeTimeout time.Duration // TLS handshake timeout
	DialTimeout         time.Duration // Connection dial timeout
	KeepAlive           time.Duration // Keep-alive duration
	MaxContentSize      int64         // Response body cap in bytes (0 = no cap)
}

// DefaultClientConfig returns the default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             20 * time.Second,
		UserAgent:           "rankwatch/1.0",
		InsecureSkipVerify:  false,
		EnableHTTP2:         true,
		FollowRedirects:     true,
		MaxRedirects:        10,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
		KeepAlive:           30 * time.Second,
		MaxContentSize:      10 * 1024 * 1024,
	}
}
