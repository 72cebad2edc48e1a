// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Brand rule names, reported on rejection and used as metric labels.
const (
	RuleLength             = "length"
	RuleNoLetters          = "no_letters"
	RuleNumeric            = "numeric"
	RuleProductService     = "product_service"
	RuleUIElement          = "ui_element"
	RuleProductModel       = "product_model"
	RuleMagazine           = "magazine"
	RuleWordCount          = "word_count"
	RuleLowercaseMultiWord = "lowercase_multi_word"
)

// BrandRule is one predicate of the brand filter. Reject receives the
// trimmed candidate.
type BrandRule struct {
	Name   string
	Reject func(brand string) bool
}

// Rejection records a brand candidate dropped by a rule.
type Rejection struct {
	Brand string
	Rule  string
}

// brandRules builds the ordered rule list. A candidate is rejected by the
// first rule that matches.
func brandRules(cfg types.FilterConfig, pats *compiledPatterns) []BrandRule {
	return []BrandRule{
		{RuleLength, func(b string) bool {
			n := utf8.RuneCountInString(b)
			return n < cfg.BrandMinLen || n > cfg.BrandMaxLen
		}},
		{RuleNoLetters, func(b string) bool {
			return strings.IndexFunc(b, unicode.IsLetter) < 0
		}},
		{RuleNumeric, func(b string) bool {
			return strings.TrimFunc(b, unicode.IsDigit) == ""
		}},
		{RuleProductService, func(b string) bool { return matchAny(pats.productService, b) }},
		{RuleUIElement, func(b string) bool { return matchAny(pats.uiElement, b) }},
		{RuleProductModel, func(b string) bool { return matchAny(pats.productModel, b) }},
		{RuleMagazine, func(b string) bool { return matchAny(pats.magazine, b) }},
		{RuleWordCount, func(b string) bool {
			return len(strings.Fields(b)) > cfg.BrandMaxWords
		}},
		{RuleLowercaseMultiWord, func(b string) bool {
			r, _ := utf8.DecodeRuneInString(b)
			return unicode.IsLower(r) && len(strings.Fields(b)) > 1
		}},
	}
}

// Rules returns the processor's brand rules in evaluation order.
func (p *Processor) Rules() []BrandRule {
	return p.rules
}

// FilterBrands drops brand candidates that fail any rule and then
// deduplicates the survivors. The result is nil when nothing survives.
func (p *Processor) FilterBrands(brands []string) ([]string, []Rejection) {
	var kept []string
	var rejected []Rejection

	for _, raw := range brands {
		b := strings.TrimSpace(raw)
		rule := p.firstFailingRule(b)
		if rule != "" {
			rejected = append(rejected, Rejection{Brand: b, Rule: rule})
			continue
		}
		kept = append(kept, b)
	}

	return DedupeBrands(kept), rejected
}

func (p *Processor) firstFailingRule(b string) string {
	for _, r := range p.rules {
		if r.Reject(b) {
			return r.Name
		}
	}
	return ""
}

// DedupeBrands removes brands that share a BrandKey. The first occurrence
// keeps its position; a later spelling replaces it when preferCanonical says so.
func DedupeBrands(brands []string) []string {
	var out []string
	index := make(map[string]int, len(brands))

	for _, b := range brands {
		b = strings.TrimSpace(b)
		key := BrandKey(b)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, b)
			continue
		}
		if preferCanonical(b, out[i]) {
			out[i] = b
		}
	}
	return out
}

// BrandKey is the comparison key for brand names: NFKC-normalised, lowercased,
// with trademark signs and everything except letters and digits removed.
func BrandKey(s string) string {
	s = norm.NFKC.String(strings.ReplaceAll(s, "\u2122", ""))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// preferCanonical reports whether candidate should replace existing. Only a
// capitalised candidate can win: over a non-capitalised one, a hyphenated over
// a spaced-only one, or an unspaced over a spaced one.
func preferCanonical(candidate, existing string) bool {
	if !capitalized(candidate) {
		return false
	}
	switch {
	case !capitalized(existing):
		return true
	case strings.Contains(candidate, "-") && !strings.Contains(existing, "-"):
		return true
	case !strings.Contains(candidate, " ") && strings.Contains(existing, " "):
		return true
	}
	return false
}

func capitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
