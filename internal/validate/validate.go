// Package validate performs cheap pre-flight URL checks before any engine
// invocation: syntax, a typo catalogue for well-known platforms, DNS
// resolution, and a one-byte ranged GET as a reachability probe.
//
// Probe policy: many sites block lightweight probes, so a failed or blocked
// probe does NOT reject the URL — a false negative here would wrongly
// exclude valid content. A TLS handshake failure during the probe is the
// exception and is fatal, since it closely correlates with real
// unreachability. DNS failures are always fatal.
package validate

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Validator checks one normalized URL at a time. The zero value is not
// usable; construct with New.
type Validator struct {
	// LookupHost resolves a hostname. Overridable in tests.
	LookupHost func(ctx context.Context, host string) ([]string, error)

	// Client issues the reachability probe. Overridable in tests.
	Client *http.Client

	// Timeout bounds DNS resolution and the probe, each.
	Timeout time.Duration
}

// New returns a Validator with the given per-check timeout.
func New(timeout time.Duration) *Validator {
	return &Validator{
		LookupHost: (&net.Resolver{}).LookupHost,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		Timeout: timeout,
	}
}

// Check reports whether the URL is worth handing to the download engine.
// The reason is non-empty when valid is false.
func (v *Validator) Check(ctx context.Context, rawURL string) (valid bool, reason string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Sprintf("malformed URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, fmt.Sprintf("unsupported scheme %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return false, "URL has no host"
	}

	if hint, ok := typoSuspect(host); ok {
		return false, hint
	}

	dnsCtx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()
	if _, err := v.LookupHost(dnsCtx, host); err != nil {
		return false, fmt.Sprintf("DNS resolution failed for %s: %v", host, err)
	}

	if err := v.probe(ctx, rawURL); err != nil {
		if isTLSError(err) {
			return false, fmt.Sprintf("TLS handshake failed: %v", err)
		}
		// Blocked or failed probes are not disqualifying; let the full
		// attempt decide.
		return true, ""
	}
	return true, ""
}

// probe issues a minimal ranged GET requesting only the first byte.
func (v *Validator) probe(ctx context.Context, rawURL string) error {
	probeCtx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", "bytes=0-0")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := v.Client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// isTLSError reports whether an error originates in the TLS layer.
func isTLSError(err error) bool {
	var (
		certInvalid   x509.CertificateInvalidError
		unknownAuth   x509.UnknownAuthorityError
		hostnameErr   x509.HostnameError
		recordHdrErr  tls.RecordHeaderError
		certVerifyErr *tls.CertificateVerificationError
	)
	if errors.As(err, &certInvalid) || errors.As(err, &unknownAuth) ||
		errors.As(err, &hostnameErr) || errors.As(err, &recordHdrErr) ||
		errors.As(err, &certVerifyErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}

// platform is one well-known site the typo catalogue watches for.
type platform struct {
	name    string   // full platform name
	stem    string   // truncated fragment typos usually keep; empty disables the check
	domains []string // exact registrable domains that are fine
}

var platforms = []platform{
	{"youtube", "yout", []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{"tiktok", "", []string{"tiktok.com"}},
	{"instagram", "", []string{"instagram.com", "instagr.am"}},
	{"facebook", "", []string{"facebook.com", "fb.watch", "fb.com"}},
	{"twitter", "", []string{"twitter.com", "twimg.com"}},
	{"vimeo", "", []string{"vimeo.com"}},
	{"twitch", "", []string{"twitch.tv"}},
}

// typoSuspect flags hostnames that look like a misspelling of a well-known
// platform: the host carries the platform's stem without the full name, or
// its first label is one edit away from the name. Hosts containing the full
// name are left alone (youtubekids.com, tiktokcdn.com are real hosts); the
// engine decides whether it can serve them.
func typoSuspect(host string) (string, bool) {
	host = strings.ToLower(host)

	for _, p := range platforms {
		for _, d := range p.domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return "", false
			}
		}
	}

	label := strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(label, '.'); i > 0 {
		label = label[:i]
	}

	for _, p := range platforms {
		if strings.Contains(host, p.name) {
			continue
		}
		stemmed := p.stem != "" && strings.Contains(host, p.stem)
		if stemmed || withinOneEdit(label, p.name) {
			return fmt.Sprintf("host %q looks like a misspelling of %s", host, p.domains[0]), true
		}
	}
	return "", false
}

// withinOneEdit reports whether a and b differ by exactly one
// insertion, deletion, or substitution.
func withinOneEdit(a, b string) bool {
	if a == b {
		return false
	}
	la, lb := len(a), len(b)
	if la > lb {
		a, b, la, lb = b, a, lb, la
	}
	if lb-la > 1 {
		return false
	}
	for i := 0; i < la; i++ {
		if a[i] != b[i] {
			if la == lb {
				return a[i+1:] == b[i+1:] // substitution
			}
			return a[i:] == b[i+1:] // insertion in b
		}
	}
	return lb == la+1 // b has one extra trailing char
}
