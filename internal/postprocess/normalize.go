// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/supplier-extract/internal/schema"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// nonWebSchemes name values that are not web addresses.
var nonWebSchemes = []string{"mailto:", "tel:", "sms:", "javascript:", "data:"}

// NormalizeURL gives a URL an explicit scheme. http and https URLs keep their
// scheme (lower-cased); protocol-relative URLs, bare domains and any other
// hierarchical scheme become https. Blank input and mailto:, tel: and similar
// non-web values yield "".
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	for _, scheme := range nonWebSchemes {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}
	switch {
	case strings.HasPrefix(lower, "https://"):
		return "https://" + s[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		return "http://" + s[len("http://"):]
	case strings.HasPrefix(s, "//"):
		return "https:" + s
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
	}
	return "https://" + s
}

// NormalizeSocial normalises every platform URL. It returns nil when no
// platform is set.
func NormalizeSocial(sm *types.SocialMedia) *types.SocialMedia {
	if sm.IsEmpty() {
		return nil
	}
	out := &types.SocialMedia{
		LinkedIn: NormalizeURL(sm.LinkedIn),
		Twitter:  NormalizeURL(sm.Twitter),
		Facebook: NormalizeURL(sm.Facebook),
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// ValidEmail reports whether s has the basic shape of an email address.
func ValidEmail(s string) bool {
	return schema.EmailPattern.MatchString(s)
}

// foldKey is the case- and spacing-insensitive comparison key for list items.
func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// DedupeFold trims items and removes case-insensitive duplicates, keeping the
// first spelling. Empty items are dropped; an empty result is nil.
func DedupeFold(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		k := foldKey(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// stripInvisible removes zero-width characters that survive scraping.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

// NormalizeCategories collapses whitespace, deduplicates case-insensitively
// (first spelling wins, with a leading capital) and keeps at most limit entries.
func NormalizeCategories(categories []string, limit int) []string {
	var out []string
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		cleaned := strings.Join(strings.Fields(stripInvisible(c)), " ")
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, upperFirst(cleaned))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// GenerateTags derives tags from the industry, the first three services and
// the first two location parts. At most limit tags are returned.
func GenerateTags(r types.SupplierRecord, limit int) []string {
	var tags []string
	if r.Industry != "" {
		tags = append(tags, strings.ToLower(r.Industry))
	}
	for i, s := range r.Services {
		if i == 3 {
			break
		}
		tags = append(tags, truncateRunes(strings.ToLower(strings.TrimSpace(s)), 20))
	}
	if r.Location != "" {
		parts := strings.Split(r.Location, ",")
		for i, p := range parts {
			if i == 2 {
				break
			}
			tags = append(tags, strings.ToLower(strings.TrimSpace(p)))
		}
	}

	tags = DedupeFold(tags)
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
