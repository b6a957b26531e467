package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorCategory represents the classification of a link problem.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryRedirect          ErrorCategory = "permanent_redirect"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryBlocked           ErrorCategory = "blocked"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines the error category based on the error, HTTP status code,
// and whether a redirect loop was detected.
func ClassifyError(err error, statusCode int, isRedirectLoop bool) ErrorCategory {
	// Check redirect loop first (highest priority)
	if isRedirectLoop {
		return CategoryRedirectLoop
	}

	// Check HTTP status codes
	if statusCode > 0 {
		if statusCode >= 400 && statusCode <= 499 {
			return Category4xx
		}
		if statusCode >= 500 {
			return Category5xx
		}
	}

	if err == nil {
		return CategoryUnknown
	}

	if innermostTLSError(err) != nil {
		return CategoryTLS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTLS:
		return "TLS Errors"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryRedirect:
		return "Permanent Redirects"
	case CategoryRedirectLoop:
		return "Redirect Loops"
	case CategoryBlocked:
		return "Blocked by robots.txt"
	default:
		return "Other Errors"
	}
}

// describeNetworkError picks the message reported for a transport failure:
// the innermost TLS error in the chain if there is one, otherwise the
// failure itself without the "Head \"url\":" prefix net/http adds.
func describeNetworkError(err error) string {
	if err == nil {
		return "unknown error"
	}
	if tlsErr := innermostTLSError(err); tlsErr != nil {
		return messageOf(tlsErr)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return messageOf(urlErr.Err)
	}
	return messageOf(err)
}

func messageOf(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%T", err)
}

// innermostTLSError walks the wrap chain and returns the deepest TLS or
// certificate error, or nil.
func innermostTLSError(err error) error {
	var found error
	for current := err; current != nil; current = errors.Unwrap(current) {
		if isTLSError(current) {
			found = current
		}
	}
	return found
}

func isTLSError(err error) bool {
	switch err.(type) {
	case *tls.CertificateVerificationError,
		x509.UnknownAuthorityError,
		x509.HostnameError,
		x509.CertificateInvalidError,
		x509.SystemRootsError,
		x509.ConstraintViolationError,
		tls.RecordHeaderError,
		tls.AlertError:
		return true
	}
	return false
}
