// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

const storeHTML = `<html><head><title>Audio Store</title><script>var x = "Yamaha";</script></head>
<body>
<nav><a href="/">Home</a><a href="/shop">Shop All</a></nav>
<section id="our-brands">
  <h2>Our Brands</h2>
  <ul>
    <li><a href="/brands/yamaha">Yamaha</a></li>
    <li><a href="/brands/shure"><img src="shure.png" alt="Shure"></a></li>
    <li>Fender</li>
  </ul>
</section>
<div class="products"><p>Speakers and microphones for every stage.</p></div>
<footer>
  <address>12 Example Street, Sydney NSW 2000, Australia</address>
  <a href="mailto:sales@audio.example?subject=hi">Email us</a>
  <a href="tel:+61 2 5550 1234">Call</a>
</footer>
</body></html>`

func TestNormalize_PromotesBrandSection(t *testing.T) {
	out := Normalize(types.ScrapedContent{
		URL:     "https://audio.example",
		Title:   "Audio Store",
		Content: "Welcome to our shop.",
		RawHTML: storeHTML,
	}, types.ContentBudget{})

	require.True(t, strings.HasPrefix(out, BrandsStart), out)
	brandBlock := out[:strings.Index(out, BrandsEnd)]
	assert.Contains(t, brandBlock, "Yamaha")
	assert.Contains(t, brandBlock, "Shure")
	assert.Contains(t, brandBlock, "Fender")
	assert.NotContains(t, brandBlock, "Shop All")

	assert.Less(t, strings.Index(out, BrandsEnd), strings.Index(out, "Title: Audio Store"))
	assert.Contains(t, out, "Content: Welcome to our shop.")
}

func TestNormalize_ContactSection(t *testing.T) {
	out := Normalize(types.ScrapedContent{RawHTML: storeHTML}, types.ContentBudget{})

	start := strings.Index(out, ContactStart)
	end := strings.Index(out, ContactEnd)
	require.True(t, start >= 0 && end > start, out)
	block := out[start:end]
	assert.Contains(t, block, "12 Example Street, Sydney NSW 2000, Australia")
	assert.Contains(t, block, "Email: sales@audio.example")
	assert.Contains(t, block, "Phone: +61 2 5550 1234")
	// The address sits inside the footer; it is reported once.
	assert.Equal(t, 1, strings.Count(block, "12 Example Street"))
}

func TestNormalize_BodyFromRawHTML(t *testing.T) {
	out := Normalize(types.ScrapedContent{RawHTML: storeHTML}, types.ContentBudget{})
	assert.Contains(t, out, "Speakers and microphones for every stage.")
	assert.NotContains(t, out, "var x", "script text must be stripped")
}

func TestNormalize_HTMLContentIsStripped(t *testing.T) {
	out := Normalize(types.ScrapedContent{
		Content: "<p>Acme &amp; Sons</p><style>p{}</style><div>Widgets</div>",
	}, types.ContentBudget{})
	assert.Equal(t, "Content: Acme & Sons Widgets", out)
}

func TestNormalize_PlainTextOnly(t *testing.T) {
	out := Normalize(types.ScrapedContent{
		Title:       "  Acme   Pty Ltd ",
		Description: "Industrial supplies",
		Content:     "We sell 5 < 6 things",
	}, types.ContentBudget{})
	assert.Equal(t, "Title: Acme Pty Ltd\nDescription: Industrial supplies\nContent: We sell 5 < 6 things", out)
}

func TestNormalize_LooseBrandLinks(t *testing.T) {
	html := `<body><p>Shop by <a href="/brand/roland">Roland</a> or <a href="/brand/korg">Korg</a></p></body>`
	out := Normalize(types.ScrapedContent{RawHTML: html}, types.ContentBudget{})
	require.True(t, strings.HasPrefix(out, BrandsStart))
	assert.Contains(t, out, "Roland\nKorg")
}

func TestNormalize_Budget(t *testing.T) {
	long := strings.Repeat("é", 20000)
	out := Normalize(types.ScrapedContent{Title: "T", Content: long}, types.ContentBudget{})
	assert.LessOrEqual(t, utf8.RuneCountInString(out), types.DefaultMaxChars)
	assert.True(t, utf8.ValidString(out))

	body := strings.TrimPrefix(out, "Title: T\nContent: ")
	assert.Equal(t, types.DefaultBodyChars, utf8.RuneCountInString(body))

	small := Normalize(types.ScrapedContent{Content: long}, types.ContentBudget{MaxChars: 100, BodyChars: 50})
	assert.Equal(t, 50+len("Content: "), utf8.RuneCountInString(small))
}

func TestNormalize_BrandSectionSurvivesTruncation(t *testing.T) {
	out := Normalize(types.ScrapedContent{
		Content: strings.Repeat("filler ", 5000),
		RawHTML: storeHTML,
	}, types.ContentBudget{MaxChars: 500})
	assert.Contains(t, out, "Yamaha")
	assert.Equal(t, 500, utf8.RuneCountInString(out))
}

func TestNormalize_Deterministic(t *testing.T) {
	in := types.ScrapedContent{Title: "x", RawHTML: storeHTML}
	assert.Equal(t, Normalize(in, types.ContentBudget{}), Normalize(in, types.ContentBudget{}))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hello", 0, "hello"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain body", PlainText(types.ScrapedContent{Content: " plain body "}))
	assert.Equal(t, "A B", PlainText(types.ScrapedContent{Content: "<p>A</p><p>B</p>"}))
	assert.Equal(t, "Hello world", PlainText(types.ScrapedContent{RawHTML: "<body><div>Hello</div><script>x()</script><div>world</div></body>"}))
	assert.Empty(t, PlainText(types.ScrapedContent{}))
}
