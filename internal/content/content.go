// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content turns scraped page content into the bounded text block
// sent to providers. Sections of the raw HTML that usually hold brand names
// or contact details are promoted ahead of the page body so that truncation
// never drops them.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Section markers. Providers are told to read the brands section first.
const (
	BrandsStart  = "=== BRANDS SECTION (HIGH PRIORITY - EXTRACT ALL BRAND NAMES FROM HERE) ==="
	BrandsEnd    = "=== END BRANDS SECTION ==="
	ContactStart = "=== CONTACT SECTION (ADDRESSES, PHONE, EMAIL) ==="
	ContactEnd   = "=== END CONTACT SECTION ==="
)

// maxSections bounds how many sections of each kind are promoted.
const maxSections = 5

var brandKeywords = []string{
	"brands",
	"our brands",
	"brands we carry",
	"featured brands",
	"brand partners",
}

var (
	htmlTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

	containerSel = "section, div, ul, ol, nav, aside"
	headingSel   = "h1, h2, h3, h4, h5, h6"
	contactSel   = "address, footer, [id*=contact], [class*=contact], [id*=address], [class*=address], [id*=location], [class*=location]"
)

// Normalize builds the provider input for sc. It is pure: the same input and
// budget always produce the same text, and the result never exceeds
// budget.MaxChars runes.
func Normalize(sc types.ScrapedContent, budget types.ContentBudget) string {
	budget.ApplyDefaults()

	doc := parse(sc.RawHTML)

	var brands, contacts []string
	if doc != nil {
		brands = brandSections(doc, budget.SectionChars)
		contacts = contactSections(doc, budget.SectionChars)
	}

	body := Truncate(PlainText(sc), budget.BodyChars)

	var b strings.Builder
	writeBlock(&b, BrandsStart, BrandsEnd, brands)
	writeBlock(&b, ContactStart, ContactEnd, contacts)
	if t := collapse(sc.Title); t != "" {
		b.WriteString("Title: " + t + "\n")
	}
	if d := collapse(sc.Description); d != "" {
		b.WriteString("Description: " + d + "\n")
	}
	if body != "" {
		b.WriteString("Content: " + body + "\n")
	}

	return Truncate(strings.TrimRight(b.String(), "\n"), budget.MaxChars)
}

// PlainText returns the visible text of sc's body: Content with any markup
// stripped, or the text of RawHTML when Content is empty. Title and
// description are not included.
func PlainText(sc types.ScrapedContent) string {
	body := strings.TrimSpace(sc.Content)
	switch {
	case body != "" && htmlTagRe.MatchString(body):
		return htmlToText(body)
	case body != "":
		return body
	}
	if doc := parse(sc.RawHTML); doc != nil {
		return visibleText(doc)
	}
	return ""
}

func writeBlock(b *strings.Builder, start, end string, sections []string) {
	if len(sections) == 0 {
		return
	}
	b.WriteString(start + "\n")
	for _, s := range sections {
		b.WriteString(s + "\n")
	}
	b.WriteString(end + "\n\n")
}

// Truncate cuts s to at most n runes, keeping the prefix. n <= 0 means no limit.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func parse(raw string) *goquery.Document {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	doc.Find("script, style, noscript, template").Remove()
	return doc
}

func htmlToText(raw string) string {
	doc := parse(raw)
	if doc == nil {
		return ""
	}
	return visibleText(doc)
}

func visibleText(doc *goquery.Document) string {
	return textOf(doc.Find("body"))
}

// blockElems end a run of text. Their boundaries become spaces so that
// adjacent blocks do not run together.
var blockElems = map[string]bool{
	"address": true, "article": true, "aside": true, "br": true, "dd": true,
	"div": true, "dt": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"li": true, "nav": true, "ol": true, "p": true, "section": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// textOf returns the whitespace-collapsed text of s with block boundaries
// kept as spaces.
func textOf(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElems[n.Data] {
			b.WriteByte(' ')
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isBrandContainer reports whether s is labelled as a brand listing through
// its attributes or its leading heading.
func isBrandContainer(s *goquery.Selection) bool {
	for _, attr := range []string{"id", "class", "aria-label"} {
		if v, ok := s.Attr(attr); ok && strings.Contains(strings.ToLower(v), "brand") {
			return true
		}
	}
	first := s.Children().First()
	if first.Length() == 0 || !first.Is(headingSel) {
		return false
	}
	heading := strings.ToLower(textOf(first))
	for _, kw := range brandKeywords {
		if strings.Contains(heading, kw) {
			return true
		}
	}
	return false
}

// outermost selects the elements matching match, skipping any element nested
// inside one already selected.
func outermost(doc *goquery.Document, selector string, match func(*goquery.Selection) bool) *goquery.Selection {
	var picked *goquery.Selection
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if picked != nil && s.Parents().IsSelection(picked) {
			return
		}
		if match != nil && !match(s) {
			return
		}
		if picked == nil {
			picked = s
		} else {
			picked = picked.AddSelection(s)
		}
	})
	return picked
}

func brandSections(doc *goquery.Document, limit int) []string {
	var out []string
	picked := outermost(doc, containerSel, isBrandContainer)
	if picked != nil {
		picked.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text := brandItems(s); text != "" {
				out = append(out, Truncate(text, limit))
			}
			return len(out) < maxSections
		})
	}

	// Brand page links outside any labelled section.
	var loose []string
	seen := map[string]bool{}
	doc.Find(`a[href*="/brand"]`).Each(func(_ int, a *goquery.Selection) {
		if picked != nil && a.Parents().IsSelection(picked) {
			return
		}
		name := linkName(a)
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		loose = append(loose, name)
	})
	if len(loose) > 0 && len(out) < maxSections {
		out = append(out, Truncate(strings.Join(loose, "\n"), limit))
	}
	return out
}

// brandItems lists the names inside a brand container: link texts, logo alt
// texts and plain list items. Falls back to the container's text.
func brandItems(s *goquery.Selection) string {
	var items []string
	seen := map[string]bool{}
	add := func(v string) {
		v = collapse(v)
		if v == "" || seen[strings.ToLower(v)] {
			return
		}
		seen[strings.ToLower(v)] = true
		items = append(items, v)
	}

	s.Find("a, img[alt], li").Each(func(_ int, e *goquery.Selection) {
		switch goquery.NodeName(e) {
		case "a":
			add(linkName(e))
		case "img":
			if e.ParentsFiltered("a").Length() == 0 {
				alt, _ := e.Attr("alt")
				add(alt)
			}
		case "li":
			if e.Find("a, img").Length() == 0 {
				add(textOf(e))
			}
		}
	})
	if len(items) == 0 {
		return textOf(s)
	}
	return strings.Join(items, "\n")
}

// linkName is the visible text of a link, or the alt text of its logo.
func linkName(a *goquery.Selection) string {
	if t := textOf(a); t != "" {
		return t
	}
	alt, _ := a.Find("img[alt]").First().Attr("alt")
	if t := collapse(alt); t != "" {
		return t
	}
	title, _ := a.Attr("title")
	return collapse(title)
}

func contactSections(doc *goquery.Document, limit int) []string {
	var out []string
	picked := outermost(doc, contactSel, nil)
	if picked != nil {
		picked.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text := textOf(s); text != "" {
				out = append(out, Truncate(text, limit))
			}
			return len(out) < maxSections
		})
	}

	var links []string
	seen := map[string]bool{}
	doc.Find(`a[href^="mailto:"], a[href^="tel:"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		var line string
		switch {
		case strings.HasPrefix(href, "mailto:"):
			addr := strings.SplitN(strings.TrimPrefix(href, "mailto:"), "?", 2)[0]
			line = "Email: " + strings.TrimSpace(addr)
		default:
			line = "Phone: " + strings.TrimSpace(strings.TrimPrefix(href, "tel:"))
		}
		if !seen[line] {
			seen[line] = true
			links = append(links, line)
		}
	})
	if len(links) > 0 {
		out = append(out, Truncate(strings.Join(links, "\n"), limit))
	}
	return out
}
