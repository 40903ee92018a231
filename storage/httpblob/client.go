// Package httpblob implements a storage backend over an HTTP blob
// gateway.
//
// Blobs map to URLs beneath a base URL: Exists issues HEAD, reads GET,
// writes PUT, and recursive deletes DELETE with a recursive=1 query.
// The client retries transport failures, rate-limits outbound calls,
// and trips a circuit breaker when the gateway keeps failing.
package httpblob

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/modelvault/modelvault/internal/breaker"
	"github.com/modelvault/modelvault/version"
)

const headerRequestID = "X-Request-ID"

// Config tunes the HTTP blob client.
type Config struct {
	// BaseURL is the gateway root every blob path is resolved against.
	BaseURL string
	// Timeout bounds a single request.
	Timeout time.Duration
	// RetryMax is the number of retries for transport-level failures.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RequestsPerSecond caps outbound request rate. Zero means unlimited.
	RequestsPerSecond float64
	// Burst is the rate limiter burst. Zero derives it from the rate.
	Burst int
}

func (cfg Config) withDefaults() Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = 1 * time.Second
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = 30 * time.Second
	}
	return cfg
}

// Backend talks to an HTTP blob gateway.
type Backend struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *breaker.Breaker
	log     *zap.Logger
}

// New creates a gateway-backed storage backend. A nil logger is
// replaced with a no-op one.
func New(cfg Config, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("httpblob: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("httpblob: invalid base URL %q", cfg.BaseURL)
	}
	cfg = cfg.withDefaults()

	// The retryable client contributes its tuned transport; resty
	// carries the retry schedule itself.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(cfg.RetryWaitMin).
		SetRetryMaxWaitTime(cfg.RetryWaitMax).
		SetHeader("User-Agent", "modelvault/"+version.Version)
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RequestsPerSecond)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	br := breaker.New("httpblob", breaker.Config{
		FailureThreshold: 10,
		Cooldown:         30 * time.Second,
		ProbeCount:       3,
		OnChange: func(name string, from, to breaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Backend{
		resty:   restyClient,
		limiter: limiter,
		breaker: br,
		log:     log,
	}, nil
}

// escapePath escapes each path segment for use in a URL.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// requestID tags one outbound request for correlation with gateway logs.
func requestID() string {
	return uuid.NewString()
}
