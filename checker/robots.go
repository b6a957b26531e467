package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// maxRobotsBytes caps how much of a robots.txt body is read.
const maxRobotsBytes = 512 << 10

// RobotsChecker fetches robots.txt once per host and answers whether a
// user agent may request a URL. Any failure to obtain rules allows all.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	groups    sync.Map // scheme://host -> *robotstxt.Group (nil allows all)
	flights   singleflight.Group
}

// NewRobotsChecker creates a RobotsChecker that identifies as userAgent.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{client: client, userAgent: userAgent}
}

// Allowed reports whether target may be requested. The error is
// informational: when it is non-nil the answer is always true.
func (r *RobotsChecker) Allowed(ctx context.Context, target string) (bool, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return true, nil
	}

	origin := parsed.Scheme + "://" + parsed.Host
	v, err, _ := r.flights.Do(origin, func() (any, error) {
		if cached, ok := r.groups.Load(origin); ok {
			return cached, nil
		}
		group, fetchErr := r.fetch(ctx, origin)
		r.groups.Store(origin, group)
		return group, fetchErr
	})
	group, _ := v.(*robotstxt.Group)
	if group == nil {
		return true, err
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return group.Test(path), nil
}

// fetch retrieves and parses origin's robots.txt. A nil group means no
// restrictions apply.
func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 404 and 5xx mean no usable rules.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt body for %s: %w", origin, err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	if data == nil {
		return nil, nil
	}
	return data.FindGroup(r.userAgent), nil
}
