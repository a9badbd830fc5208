// Package scope maps the host a viewer arrived on to the backend domain key.
package scope

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultSaaSDomain is the shared hosting domain whose subdomains are tenants.
const DefaultSaaSDomain = "mojonetwork.in"

// LocalDomainName is the domain key used for local development hosts.
const LocalDomainName = "test"

// Scope identifies the feed a session paginates over.
type Scope struct {
	// DomainName is the key sent as domain_name on every request.
	DomainName string
	// FullDomain is the full host, attached to every item and shown to the user.
	FullDomain string
}

// Resolve computes the scope for host. Tenants of saasDomain are keyed by
// subdomain, local hosts by LocalDomainName, everything else by the host minus
// a leading "www.".
func Resolve(host, saasDomain string) Scope {
	host = strings.TrimSpace(host)
	if saasDomain == "" {
		saasDomain = DefaultSaaSDomain
	}
	if IsLocal(host) {
		return Scope{DomainName: LocalDomainName, FullDomain: host}
	}

	name := normalize(stripPort(host))
	saas := normalize(saasDomain)
	if strings.HasSuffix(name, "."+saas) {
		return Scope{DomainName: strings.TrimSuffix(name, "."+saas), FullDomain: name}
	}
	return Scope{DomainName: strings.TrimPrefix(name, "www."), FullDomain: name}
}

// IsLocal reports whether host is a development host.
func IsLocal(host string) bool {
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func normalize(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
