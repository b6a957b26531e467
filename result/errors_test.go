package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		statusCode     int
		isRedirectLoop bool
		want           ErrorCategory
	}{
		{
			name:           "redirect loop",
			err:            nil,
			statusCode:     0,
			isRedirectLoop: true,
			want:           CategoryRedirectLoop,
		},
		{
			name:           "4xx status",
			err:            nil,
			statusCode:     404,
			isRedirectLoop: false,
			want:           Category4xx,
		},
		{
			name:           "5xx status",
			err:            nil,
			statusCode:     500,
			isRedirectLoop: false,
			want:           Category5xx,
		},
		{
			name:           "timeout error",
			err:            context.DeadlineExceeded,
			statusCode:     0,
			isRedirectLoop: false,
			want:           CategoryTimeout,
		},
		{
			name:           "wrapped certificate error",
			err:            &url.Error{Op: "Head", URL: "https://x.test", Err: &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}},
			statusCode:     0,
			isRedirectLoop: false,
			want:           CategoryTLS,
		},
		{
			name:           "connection refused",
			err:            &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
			statusCode:     0,
			isRedirectLoop: false,
			want:           CategoryConnectionRefused,
		},
		{
			name:           "no error no status",
			err:            nil,
			statusCode:     0,
			isRedirectLoop: false,
			want:           CategoryUnknown,
		},
		{
			name:           "3xx status is unknown",
			err:            nil,
			statusCode:     301,
			isRedirectLoop: false,
			want:           CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, tt.statusCode, tt.isRedirectLoop)
			if got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyError_DNSFailure(t *testing.T) {
	// Create a DNS error
	dnsErr := &net.DNSError{
		Err:  "no such host",
		Name: "example.invalid",
	}

	got := ClassifyError(dnsErr, 0, false)
	if got != CategoryDNSFailure {
		t.Errorf("ClassifyError(DNSError) = %v, want %v", got, CategoryDNSFailure)
	}
}

func TestDescribeNetworkError(t *testing.T) {
	certErr := x509.UnknownAuthorityError{}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "innermost tls error wins",
			err: &url.Error{
				Op:  "Head",
				URL: "https://self-signed.test/",
				Err: fmt.Errorf("handshake: %w", &tls.CertificateVerificationError{Err: certErr}),
			},
			want: certErr.Error(),
		},
		{
			name: "url error prefix dropped",
			err: &url.Error{
				Op:  "Head",
				URL: "http://nowhere.invalid/",
				Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid"},
			},
			want: "lookup nowhere.invalid: no such host",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
		{
			name: "nil error",
			err:  nil,
			want: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeNetworkError(tt.err); got != tt.want {
				t.Errorf("describeNetworkError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCategory(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{CategoryTimeout, "Timeouts"},
		{CategoryDNSFailure, "DNS Failures"},
		{CategoryConnectionRefused, "Connection Refused"},
		{CategoryTLS, "TLS Errors"},
		{Category4xx, "Client Errors (4xx)"},
		{Category5xx, "Server Errors (5xx)"},
		{CategoryRedirect, "Permanent Redirects"},
		{CategoryRedirectLoop, "Redirect Loops"},
		{CategoryBlocked, "Blocked by robots.txt"},
		{CategoryUnknown, "Other Errors"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got := FormatCategory(tt.cat)
			if got != tt.want {
				t.Errorf("FormatCategory(%v) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}
