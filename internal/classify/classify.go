// Package classify buckets download-engine failure messages.
//
// Permanent-unavailable and network-failure are terminal for a URL: no
// credential retry can fix them, so callers fail fast instead of sweeping
// every credential source. Everything else is Unknown, which is the bucket
// missing-auth errors fall into ("Sign in to confirm...", HTTP 403).
package classify

import "strings"

// Class is the failure category of a diagnostic message.
type Class int

const (
	Unknown Class = iota
	PermanentUnavailable
	NetworkFailure
)

func (c Class) String() string {
	switch c {
	case PermanentUnavailable:
		return "permanent-unavailable"
	case NetworkFailure:
		return "network-failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the class rules out further credential attempts
// for this URL.
func (c Class) Terminal() bool {
	return c == PermanentUnavailable || c == NetworkFailure
}

// Content-level failures: the item itself cannot be served.
var permanentNeedles = []string{
	"video unavailable",
	"has been removed",
	"removed by the uploader",
	"private video",
	"this video is private",
	"does not exist",
	"no longer available",
	"unsupported url",
	"http error 404",
	"unavailable",
}

// Transport-level failures.
var networkNeedles = []string{
	"timed out",
	"timeout",
	"unable to resolve",
	"could not resolve",
	"failed to resolve",
	"name or service not known",
	"no such host",
	"temporary failure in name resolution",
	"getaddrinfo",
	"connection refused",
	"connection reset",
	"network is unreachable",
	"ssl",
	"tls",
	"certificate",
	"handshake",
}

// Classify matches a diagnostic message against the fixed needle sets,
// case-insensitively. Messages matching neither set are Unknown.
func Classify(msg string) Class {
	m := strings.ToLower(msg)
	for _, n := range networkNeedles {
		if strings.Contains(m, n) {
			return NetworkFailure
		}
	}
	for _, n := range permanentNeedles {
		if strings.Contains(m, n) {
			return PermanentUnavailable
		}
	}
	return Unknown
}
