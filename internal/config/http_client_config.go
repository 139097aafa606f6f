package config

// HTTPClientConfig defines configuration for the shared HTTP client
type HTTPClientConfig struct {
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	MaxContentSize     int64  `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"` // bytes
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	EnableHTTP2        bool   `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		UserAgent:          DefaultUserAgent,
		MaxContentSize:     DefaultMaxContentSize,
		InsecureSkipVerify: false,
		EnableHTTP2:        true,
	}
}
