// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fallback extracts a supplier record with regular expressions. It
// is used when no provider produced a record; its output is sparse but never
// invented.
package fallback

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/supplier-extract/internal/content"
	"github.com/pdiddy/supplier-extract/internal/postprocess"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Source is the value reported in metadata when the fallback produced the record.
const Source = "rule-based"

type industry struct {
	name string
	re   *regexp.Regexp
}

func keywords(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

// industries are checked in order; the first with a matching keyword wins.
var industries = []industry{
	{"Technology", keywords("software", "technology", "computing", "digital", "cloud", "saas", "platform")},
	{"Music & Entertainment", keywords("music", "entertainment", "audio", "record label", "artists?", "sound")},
	{"Manufacturing", keywords("manufacturing", "manufacturer", "production", "factory", "industrial", "components", "assembly")},
	{"Healthcare", keywords("healthcare", "medical", "hospital", "pharmaceutical", "health", "medicine", "clinic")},
	{"Finance", keywords("finance", "banking", "financial", "investment", "insurance", "accounting")},
	{"Education", keywords("education", "school", "university", "training", "learning", "academy")},
	{"Real Estate", keywords("real estate", "property", "construction", "housing")},
	{"Retail", keywords("retail", "shop", "store", "e-?commerce", "consumer")},
	{"Transportation", keywords("transportation", "logistics", "shipping", "freight", "courier")},
	{"Energy", keywords("energy", "renewable", "solar", "wind power", "utility", "oil", "gas")},
}

var (
	titleSuffixRe = regexp.MustCompile(`\s+[-–—]\s+.*$|\s*\|.*$`)
	parenRe       = regexp.MustCompile(`\s*\([^)]*\)`)

	emailRe      = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	imageExtRe   = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp)$`)
	labeledTelRe = regexp.MustCompile(`(?i)\b(?:phone|tel|telephone|call)\b\s*:?\s*(\+?[\d(][\d \t().-]{5,}\d)`)
	phoneRe      = regexp.MustCompile(`(\+?\d{1,4}[\s.-]?)?(\(?\d{2,4}\)?[\s.-]?)?\d{3,4}[\s.-]?\d{4}`)

	employeesRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d[\d,]*)\+?\s+(?:employees|staff|team members|people)\b`),
		regexp.MustCompile(`(?i)\b(?:team|staff) of\s+(\d[\d,]*)`),
	}
	foundedRe  = regexp.MustCompile(`(?i)\b(?:founded|established|since|est\.?)\s+(?:in\s+)?(\d{4})\b`)
	locationRe = regexp.MustCompile(`(?i:based|located|headquartered) in\s+([A-Z][A-Za-z]+(?:\s[A-Z][A-Za-z]+)*(?:,\s*[A-Z][A-Za-z]+(?:\s[A-Z][A-Za-z]+)*)*)`)

	linkedInRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/[^\s)"'<>]+`)
	twitterRe  = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(?:twitter|x)\.com/[A-Za-z0-9_]+`)
	facebookRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?facebook\.com/[^\s)"'<>]+`)

	addressRe = regexp.MustCompile(`(?i)(\d+[^,\n]*?\s(?:street|st|avenue|ave|road|rd|drive|dr|court|ct|boulevard|blvd|lane|ln|way)\b\.?)\s*,\s*([^,\n]+?)\s*,\s*([^,\n]+?)(?:\s*,\s*(\d{4,6}))?\s*(?:[.\n]|$)`)

	revenueRe = regexp.MustCompile(`(?i)\b(?:revenue|turnover)\s*(?:of|:|-)?\s*((?:[$€£]|R\s?)?\d[\d,.]*\s*(?:million|billion|thousand|[mkb]\b)?)`)

	certificationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bISO\s?\d{4,5}(?::\s?\d{4})?\b`),
		regexp.MustCompile(`(?i)\bSOC\s?[12](?:\s?Type\s?(?:I{1,2}|[12]))?\b`),
		regexp.MustCompile(`(?i)\bB-BBEE\s+(?:Level\s+\d|Contributor)\b`),
		regexp.MustCompile(`(?i)\b(?:CE Mark|FDA Approved|UL Listed)\b`),
	}
)

// businessTypes are legal forms, most specific first.
var businessTypes = []struct {
	label string
	re    *regexp.Regexp
}{
	{"Pty Ltd", regexp.MustCompile(`(?i)\bpty\.?\s+ltd\b`)},
	{"Private Limited", regexp.MustCompile(`(?i)\bprivate limited\b`)},
	{"LLC", regexp.MustCompile(`\bLLC\b`)},
	{"Inc", regexp.MustCompile(`\bInc\b\.?`)},
	{"Corporation", regexp.MustCompile(`(?i)\b(?:corporation|corp\.)`)},
	{"Limited", regexp.MustCompile(`(?i)\b(?:limited|ltd)\b`)},
	{"Partnership", regexp.MustCompile(`(?i)\bpartnership\b`)},
	{"Non-profit", regexp.MustCompile(`(?i)\b(?:non-profit|nonprofit|NPO)\b`)},
}

var nonNames = map[string]bool{
	"home": true, "about": true, "about us": true, "contact": true, "contact us": true,
	"services": true, "products": true, "welcome": true, "index": true,
}

// Extractor applies the rules. The zero value is not usable; call New.
type Extractor struct {
	now func() time.Time
}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{now: time.Now}
}

// Extract returns the fields the rules recognise in sc. The record is
// empty when nothing matched.
func (e *Extractor) Extract(sc types.ScrapedContent) types.SupplierRecord {
	body := content.PlainText(sc)
	text := strings.Join(nonEmpty(sc.Title, sc.Description, body), "\n")

	r := types.SupplierRecord{
		CompanyName:  CompanyName(sc.Title),
		ContactEmail: firstEmail(text),
		ContactPhone: phone(text),
		Industry:     Industry(text),
		Employees:    firstGroup(employeesRe, text),
		Founded:      e.founded(text),
		Location:     firstSubmatch(locationRe, text),
		Revenue:      firstSubmatch(revenueRe, text),
		BusinessType: businessType(text),
	}
	if d := strings.TrimSpace(sc.Description); d != "" && utf8.RuneCountInString(d) <= 500 {
		r.Description = d
	}

	sm := &types.SocialMedia{
		LinkedIn: firstMatch(linkedInRe, text),
		Twitter:  firstMatch(twitterRe, text),
		Facebook: firstMatch(facebookRe, text),
	}
	r.SocialMedia = postprocess.NormalizeSocial(sm)
	r.Addresses = addresses(body)

	var certs []string
	for _, re := range certificationRes {
		certs = append(certs, re.FindAllString(text, -1)...)
	}
	r.Certifications = postprocess.DedupeFold(certs)

	return r
}

// CompanyName derives a company name from a page title by dropping
// parenthesised parts and anything after a " - " or "|" separator.
func CompanyName(title string) string {
	name := parenRe.ReplaceAllString(strings.TrimSpace(title), "")
	name = strings.TrimSpace(titleSuffixRe.ReplaceAllString(name, ""))
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 || nonNames[strings.ToLower(name)] {
		return ""
	}
	return name
}

// Industry returns the first industry whose keywords occur in text.
func Industry(text string) string {
	for _, ind := range industries {
		if ind.re.MatchString(text) {
			return ind.name
		}
	}
	return ""
}

func firstEmail(text string) string {
	for _, m := range emailRe.FindAllString(text, -1) {
		if imageExtRe.MatchString(m) || !postprocess.ValidEmail(m) {
			continue
		}
		return m
	}
	return ""
}

func phone(text string) string {
	if m := labeledTelRe.FindStringSubmatch(text); m != nil && digits(m[1]) >= 7 {
		return strings.TrimSpace(m[1])
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		if d := digits(m); d >= 7 && d <= 15 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func (e *Extractor) founded(text string) string {
	current := e.now().Year()
	for _, m := range foundedRe.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[1])
		if err == nil && year >= 1800 && year <= current {
			return m[1]
		}
	}
	return ""
}

func businessType(text string) string {
	for _, bt := range businessTypes {
		if bt.re.MatchString(text) {
			return bt.label
		}
	}
	return ""
}

func addresses(text string) []types.Address {
	var out []types.Address
	for _, m := range addressRe.FindAllStringSubmatch(text, 3) {
		out = append(out, types.Address{
			Street:     strings.TrimSpace(m[1]),
			City:       strings.TrimSpace(m[2]),
			Country:    strings.TrimSpace(m[3]),
			PostalCode: strings.TrimSpace(m[4]),
		})
	}
	return out
}

func firstMatch(re *regexp.Regexp, text string) string {
	return re.FindString(text)
}

func firstSubmatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstGroup(res []*regexp.Regexp, text string) string {
	for _, re := range res {
		if v := firstSubmatch(re, text); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
