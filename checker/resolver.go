package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lukemcguire/zombiecheck/metrics"
	"github.com/lukemcguire/zombiecheck/result"
	"github.com/lukemcguire/zombiecheck/urlutil"
)

const (
	// robotsTimeout bounds a robots.txt fetch independently of link checks.
	robotsTimeout = 5 * time.Second

	// maxDrainBytes caps how much of a GET body is read before closing.
	maxDrainBytes = 64 << 10
)

// Resolver determines the Status of links by following their redirect
// chains over HTTP. It is safe for concurrent use; results are cached for
// the lifetime of the Resolver.
type Resolver struct {
	cfg     Config
	client  *http.Client
	cache   Cache
	robots  *RobotsChecker
	limiter *AdaptiveLimiter
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewResolver creates a Resolver from cfg.
func NewResolver(cfg Config) *Resolver {
	cfg = cfg.withDefaults()

	transport := cfg.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConnsPerHost = cfg.Workers
		if cfg.Insecure {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // user opted out of verification
		}
		transport = t
	}

	r := &Resolver{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if cfg.RespectRobots {
		r.robots = NewRobotsChecker(&http.Client{Transport: transport, Timeout: robotsTimeout}, cfg.UserAgent)
	}
	if cfg.RateLimit > 0 {
		r.limiter = NewAdaptiveLimiter(cfg.RateLimit, defaultTargetRTT, cfg.AdaptiveRate)
	}
	return r
}

// Resolve returns the Status of link. Repeated links, after normalization,
// are checked over the network at most once.
func (r *Resolver) Resolve(ctx context.Context, link string) result.Status {
	key, err := urlutil.ToURI(link)
	if err != nil {
		return result.ProtocolViolation(err.Error(), false)
	}

	status, cached := r.cache.Resolve(key, func() result.Status {
		return r.check(ctx, key)
	})
	if cached {
		r.metrics.ObserveCacheHit()
	}
	r.metrics.ObserveCheck(status.Kind)
	r.logger.Debug("resolved link",
		zap.String("link", link),
		zap.String("status", status.String()),
		zap.Bool("cached", cached),
	)
	return status
}

// CloseIdleConnections releases pooled connections held by the client.
func (r *Resolver) CloseIdleConnections() {
	r.client.CloseIdleConnections()
}

// check walks the redirect chain starting at uri.
func (r *Resolver) check(ctx context.Context, uri string) result.Status {
	if r.robots != nil {
		allowed, err := r.robots.Allowed(ctx, uri)
		if err != nil {
			r.logger.Debug("robots.txt unavailable, allowing", zap.String("url", uri), zap.Error(err))
		}
		if !allowed {
			return result.Blocked()
		}
	}

	current := uri
	visited := map[string]bool{current: true}
	allPermanent := true
	firstCode := 0
	hops := 0

	for {
		code, location, err := r.fetch(ctx, current)
		if err != nil {
			return result.NetworkFailure(err)
		}

		if code >= 200 && code <= 299 {
			r.logger.Debug("chain ended", zap.String("url", uri), zap.Int("hops", hops), zap.Int("code", code))
			switch {
			case hops == 0:
				return result.HTTPStatus(code)
			case allPermanent:
				return result.Preserved(firstCode, current)
			default:
				status := result.HTTPStatus(code)
				status.Location = current
				return status
			}
		}
		if code < 300 || code > 399 || location == "" {
			return result.HTTPStatus(code)
		}

		if hops == r.cfg.RedirectLimit {
			return result.ProtocolViolation("redirect limit exceeded", false)
		}
		next, err := urlutil.ResolveReference(current, location)
		if err != nil {
			return result.ProtocolViolation(fmt.Sprintf("invalid redirect: %v", err), false)
		}
		if !urlutil.IsHTTPScheme(next) {
			return result.ProtocolViolation("non-HTTP redirect", false)
		}
		if next, err = urlutil.ToURI(next); err != nil {
			return result.ProtocolViolation(fmt.Sprintf("invalid redirect: %v", err), false)
		}
		if visited[next] {
			return result.ProtocolViolation("redirect loop", true)
		}
		visited[next] = true

		hops++
		if hops == 1 {
			firstCode = code
		}
		if code != http.StatusMovedPermanently && code != http.StatusPermanentRedirect {
			allPermanent = false
		}
		r.metrics.ObserveRedirect()
		current = next
	}
}

// fetch performs one hop: HEAD, falling back to GET when the server
// rejects HEAD with 405.
func (r *Resolver) fetch(ctx context.Context, target string) (int, string, error) {
	code, location, err := r.do(ctx, http.MethodHead, target)
	if err == nil && code == http.StatusMethodNotAllowed {
		return r.do(ctx, http.MethodGet, target)
	}
	return code, location, err
}

func (r *Resolver) do(ctx context.Context, method, target string) (int, string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return 0, "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, target, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	start := time.Now()
	resp, err := r.client.Do(req)
	rtt := time.Since(start)
	if err != nil {
		r.metrics.ObserveRequest(method, 0, rtt)
		return 0, "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if method == http.MethodGet {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	}

	r.metrics.ObserveRequest(method, resp.StatusCode, rtt)
	if r.limiter != nil {
		r.limiter.ObserveRTT(rtt)
	}
	return resp.StatusCode, resp.Header.Get("Location"), nil
}
