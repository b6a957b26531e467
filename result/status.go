package result

import (
	"net/http"
	"strconv"
)

// Kind tags the outcome of checking one link.
type Kind int

const (
	// KindOK is a terminal 2xx, possibly after temporary redirects.
	KindOK Kind = iota
	// KindRedirectPreserved is a chain of permanent redirects ending in 2xx.
	// It is reported with the first redirect's code so the stale link is visible.
	KindRedirectPreserved
	// KindHTTPError is any other terminal status code.
	KindHTTPError
	// KindNetworkFailure covers DNS, connect, TLS and timeout errors.
	KindNetworkFailure
	// KindProtocolViolation covers bad redirects and exceeded hop limits.
	KindProtocolViolation
	// KindBlocked means robots.txt disallowed the check; no request was made.
	KindBlocked
)

var kindNames = [...]string{
	KindOK:                "ok",
	KindRedirectPreserved: "redirect_preserved",
	KindHTTPError:         "http_error",
	KindNetworkFailure:    "network_failure",
	KindProtocolViolation: "protocol_violation",
	KindBlocked:           "blocked",
}

// String returns the snake_case name used in JSON, CSV and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindOK, KindRedirectPreserved, KindHTTPError, KindNetworkFailure, KindProtocolViolation, KindBlocked}
}

// Status is the result of checking a single link. Which fields are
// meaningful depends on Kind: Code for the HTTP kinds, Message for the rest.
type Status struct {
	Kind     Kind
	Code     int           // HTTP status code (0 if no response)
	Location string        // final URL when a redirect chain ended in 2xx
	Message  string        // description for failures
	Category ErrorCategory // classification used for grouping and reporting
}

// OK reports whether the link is fine and needs no attention.
func (s Status) OK() bool {
	return s.Kind == KindOK
}

// String renders the status the way it appears between brackets in a
// report line: "404 Not Found" for HTTP kinds, the message otherwise.
func (s Status) String() string {
	switch s.Kind {
	case KindOK, KindRedirectPreserved, KindHTTPError:
		if text := http.StatusText(s.Code); text != "" {
			return strconv.Itoa(s.Code) + " " + text
		}
		return strconv.Itoa(s.Code)
	default:
		if s.Message == "" {
			return s.Kind.String()
		}
		return s.Message
	}
}

// HTTPStatus builds the Status for a terminal HTTP response.
func HTTPStatus(code int) Status {
	if code >= 200 && code <= 299 {
		return Status{Kind: KindOK, Code: code}
	}
	return Status{Kind: KindHTTPError, Code: code, Category: ClassifyError(nil, code, false)}
}

// Preserved builds the Status for a permanent redirect chain ending at location.
func Preserved(code int, location string) Status {
	return Status{Kind: KindRedirectPreserved, Code: code, Location: location, Category: CategoryRedirect}
}

// NetworkFailure builds the Status for a transport-level error.
func NetworkFailure(err error) Status {
	return Status{
		Kind:     KindNetworkFailure,
		Message:  describeNetworkError(err),
		Category: ClassifyError(err, 0, false),
	}
}

// ProtocolViolation builds the Status for a broken redirect chain or an
// unusable URL.
func ProtocolViolation(message string, isRedirectLoop bool) Status {
	category := CategoryUnknown
	if isRedirectLoop {
		category = CategoryRedirectLoop
	}
	return Status{Kind: KindProtocolViolation, Message: message, Category: category}
}

// Blocked builds the Status for a link disallowed by robots.txt.
func Blocked() Status {
	return Status{Kind: KindBlocked, Message: "disallowed by robots.txt", Category: CategoryBlocked}
}
