// Package tenant derives a tenant identifier from a request origin. Every
// account lives under a subdomain of the platform domain; the subdomain label
// is the tenant. Resolution is a pure function: no state, no I/O.
package tenant

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// None is the degraded-mode tenant: a missing, malformed, or bare-domain
// origin resolves to it. Downstream scoped queries with an empty tenant match
// nothing, which acts as an implicit access denial rather than an error.
const None = ""

// Resolve extracts the subdomain label of the origin's registrable domain.
//
//	https://acme.leaguehq.app      -> "acme"
//	https://www.acme.leaguehq.app  -> "acme"
//	https://leaguehq.app           -> None
//	garbage, IPs, localhost        -> None
func Resolve(origin string) string {
	host := hostFromOrigin(origin)
	if host == "" {
		return None
	}

	// IP literals and single-label hosts (localhost) carry no tenant.
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return None
	}

	etldPlusOne, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return None
	}
	if host == etldPlusOne {
		return None
	}

	sub := strings.TrimSuffix(host, "."+etldPlusOne)
	if sub == "" {
		return None
	}

	// Deepest label wins: "eu.acme.leaguehq.app" belongs to tenant "acme"
	// only if "acme" is the label adjacent to the registrable domain.
	labels := strings.Split(sub, ".")
	return labels[len(labels)-1]
}

// hostFromOrigin strips scheme, credentials, a www prefix, port, and path
// from an origin-like string and lowercases the remainder.
func hostFromOrigin(origin string) string {
	s := strings.TrimSpace(strings.ToLower(origin))
	if s == "" {
		return ""
	}

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "//")

	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	// Strip a port, careful not to mangle IPv6 literals.
	if strings.Count(s, ":") == 1 {
		s = s[:strings.Index(s, ":")]
	}

	s = strings.TrimPrefix(s, "www.")
	return strings.Trim(s, ".")
}
