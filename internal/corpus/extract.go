package corpus

import (
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
)

// addressPattern is the loose fallback used when a header is not RFC 5322
// parseable, which is common in exported corpora.
var addressPattern = regexp.MustCompile(`[a-zA-Z0-9.-]+@[a-zA-Z0-9.-]+\.[a-zA-Z0-9._-]+`)

// ExtractAddress returns the first address-looking substring of s, or "".
func ExtractAddress(s string) string {
	return addressPattern.FindString(s)
}

// ExtractAddresses returns every address-looking substring of s.
func ExtractAddresses(s string) []string {
	return addressPattern.FindAllString(s, -1)
}

// Normalize trims an address and optionally lower-cases it. Queries must go
// through the same function so they hit the same vertex.
func Normalize(addr string, lowercase bool) string {
	addr = strings.Trim(strings.TrimSpace(addr), `<>"'`)
	if lowercase {
		addr = strings.ToLower(addr)
	}
	return addr
}

// headerAddresses reads one address header. The structured parser is tried
// first; on failure the raw value is scanned with addressPattern.
func headerAddresses(h mail.Header, key string) []string {
	raw := h.Get(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if list, err := h.AddressList(key); err == nil && len(list) > 0 {
		out := make([]string, 0, len(list))
		for _, a := range list {
			if a.Address != "" {
				out = append(out, a.Address)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return ExtractAddresses(raw)
}
