package validators

import (
	"net"
	"strings"
)

// EmailDomain returns the lower-cased domain part of an address.
func EmailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}

// IsEmailDomainAllowed reports whether the address belongs to one of the
// allowed domains or their subdomains. An empty list allows everything.
func IsEmailDomainAllowed(email string, allowed []string) bool {
	domain, ok := EmailDomain(email)
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return true
	}

	for _, a := range allowed {
		a = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(a), "@"))
		if a == "" {
			continue
		}
		if domain == a || strings.HasSuffix(domain, "."+a) {
			return true
		}
	}
	return false
}

// IsEmailDomainValid checks that the domain can receive mail.
func IsEmailDomainValid(email string) bool {
	domain, ok := EmailDomain(email)
	if !ok {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
