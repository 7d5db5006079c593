package license

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/idna"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// NormalizeLocation canonicalizes an install location so the same site
// always maps to the same activation.
//
// IP literals are returned as given. URLs get a lower-cased scheme and host,
// lose their default port and fragment, have duplicate slashes collapsed and
// dot segments resolved, and always end their path with a slash. Input
// without a scheme is treated as host[/path] and rendered without one.
// The function is idempotent.
func NormalizeLocation(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}
	if net.ParseIP(trimmed) != nil {
		return trimmed, nil
	}

	schemeless := !strings.Contains(trimmed, "://")
	toParse := trimmed
	if schemeless {
		toParse = "//" + trimmed
	}

	u, err := url.Parse(toParse)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidLocation)
	}

	var b strings.Builder
	scheme := strings.ToLower(u.Scheme)
	if !schemeless {
		b.WriteString(scheme)
		b.WriteString("://")
	}
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(hostPort(normalizeHost(u.Hostname()), u.Port(), scheme))
	b.WriteString(normalizePath(u.EscapedPath()))
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}

	return b.String(), nil
}

func normalizeHost(host string) string {
	if strings.Contains(host, ":") {
		// IPv6 literal
		return strings.ToLower(host)
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return strings.ToLower(host)
	}
	return ascii
}

func hostPort(host, port, scheme string) string {
	if port == defaultPorts[scheme] {
		port = ""
	}
	if port != "" {
		return net.JoinHostPort(host, port)
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	cleaned := path.Clean("/" + p)
	if !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}
