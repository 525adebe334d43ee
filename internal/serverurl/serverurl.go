package serverurl

import "strings"

const (
	// HostedSuffix is the domain suffix appended to a bare host to form
	// the full server URL for hosted deployments.
	HostedSuffix = ".chat.platrum.ru"

	// Scheme is the scheme used when constructing server URLs from hosts.
	Scheme = "https://"

	// maxLabelLength is the DNS label length limit (RFC 1035).
	maxLabelLength = 63
)

// HostFromURL extracts the bare host label from whatever the user typed.
// It lowercases the input, strips a leading scheme, truncates at the first
// path, query, fragment or port separator, and removes the hosted suffix
// when present. It is total: empty input yields the empty string.
func HostFromURL(raw string) string {
	host := strings.ToLower(strings.TrimSpace(raw))

	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}

	if i := strings.IndexAny(host, "/?#:"); i >= 0 {
		host = host[:i]
	}

	host = strings.TrimSuffix(host, HostedSuffix)

	return host
}

// URLFromHost constructs the fully qualified server URL for a bare host.
// The empty host maps to the empty URL so callers can treat "no input"
// and "no URL" uniformly.
func URLFromHost(host string) string {
	if host == "" {
		return ""
	}
	return Scheme + host + HostedSuffix
}

// ValidHostLabel reports whether host is a syntactically valid DNS label:
// lowercase alphanumerics and hyphens, 1-63 characters, and no leading or
// trailing hyphen.
func ValidHostLabel(host string) bool {
	if host == "" || len(host) > maxLabelLength {
		return false
	}
	if host[0] == '-' || host[len(host)-1] == '-' {
		return false
	}
	for i := 0; i < len(host); i++ {
		c := host[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}
