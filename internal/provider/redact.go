// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"regexp"
	"strings"
)

var (
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)
	apiKeyKVRe    = regexp.MustCompile(`(?i)\b(x-api-key|api[_-]?key|key)\b\s*[:=]\s*[^\s"'&]+`)
	skTokenRe     = regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{8,}`)
)

// Redact removes secret-bearing substrings from a log or error message. Any
// literal secrets passed in are replaced as well.
func Redact(s string, secrets ...string) string {
	if s == "" {
		return ""
	}
	out := s
	for _, sec := range secrets {
		if len(sec) >= 4 {
			out = strings.ReplaceAll(out, sec, "<redacted>")
		}
	}
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	out = skTokenRe.ReplaceAllString(out, "<redacted>")
	return strings.TrimSpace(out)
}
