package checker

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/lukemcguire/zombiecheck/metrics"
)

// Defaults applied by DefaultConfig and by New for unset fields.
const (
	DefaultWorkers        = 8
	DefaultRedirectLimit  = 10
	DefaultRequestTimeout = 10 * time.Second
	DefaultUserAgent      = "zombiecheck/1.0 (+https://github.com/lukemcguire/zombiecheck)"
)

// Config holds checker configuration.
type Config struct {
	Workers        int           // Concurrent checks (default 8)
	RedirectLimit  int           // Redirects followed per link; 0 follows none
	RequestTimeout time.Duration // Per-request timeout (default 10s)
	UserAgent      string        // User-Agent header value
	Insecure       bool          // Skip TLS certificate verification

	ListOnly bool // Emit extracted links without checking them
	Verbose  bool // Also emit links that resolved OK
	Unique   bool // Dispatch each distinct link once per run

	RespectRobots bool    // Report robots.txt-disallowed links as blocked
	RateLimit     float64 // Requests per second; 0 disables limiting
	AdaptiveRate  bool    // Let the rate follow observed response times

	Encoding encoding.Encoding // Input encoding; nil means UTF-8

	// OnSourceError is called from the dispatcher goroutine when a source
	// cannot be opened or read. The run continues with the next source.
	OnSourceError func(source string, err error)

	Logger    *zap.Logger        // nil disables logging
	Metrics   *metrics.Collector // nil disables metrics
	Transport http.RoundTripper  // nil uses a clone of http.DefaultTransport
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:        DefaultWorkers,
		RedirectLimit:  DefaultRedirectLimit,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.RedirectLimit < 0 {
		c.RedirectLimit = DefaultRedirectLimit
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
