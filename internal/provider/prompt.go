// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/supplier-extract/internal/schema"
)

// PromptInput holds the values rendered into the extraction prompt.
type PromptInput struct {
	URL     string
	Content string
}

var extractionPromptTmpl = template.Must(template.New("extraction").Parse(
	`You are an expert at extracting supplier and company information from web content.

Analyze the following web content from {{.URL}} and extract all relevant supplier information.

WEB CONTENT:
{{.Content}}

Extract the following information:

REQUIRED FIELDS (extract if available):
- companyName: The official company or business name
- description: A concise description of what the company does (2-3 sentences)
- industry: The primary industry or sector
- location: Main location (city, country format)
- contactEmail: Primary contact email address
- contactPhone: Primary contact phone number
- website: The company website URL

OPTIONAL FIELDS (extract if clearly stated):
- contactPerson, employees, founded, revenue, businessType
- taxId, registrationNumber, vatNumber, currency, paymentTerms, leadTime, minimumOrderValue
- certifications: quality or industry certifications (ISO 9001 and similar)
- services: services the company offers
- products: product lines or product types the company sells
- categories: broad product or service categories
- socialMedia: linkedin, twitter and facebook profile URLs

BRANDS:
- brands: names of brands the company makes, distributes or carries. A brand is a proper name such as Yamaha, Shure, Fender, Roland or Bosch.
- Do NOT list product types (speakers, microphones, amplifiers, cables), services, model numbers (AT-2020, SM58, 2035), navigation or page elements (Shop All, View More, Home), or magazine titles as brands.
- If the content contains a section marked as a brands section, extract every brand name from it.
- brandLinks: for each brand with a dedicated page or logo, give name, url and logo.

ADDRESSES:
- addresses: physical addresses with type (headquarters, billing, shipping, warehouse or manufacturing), street, city, state, postalCode and country.
- Only include real postal addresses. Do not include navigation text, opening hours or marketing copy.

FORMATTING RULES:
1. Use only information present in the content. Do not guess or invent values.
2. Leave a field out entirely when the information is not available.
3. Write phone numbers exactly as they appear.
4. Give URLs in full, including the scheme.
5. Keep each list free of duplicates.
`))

// RenderPrompt executes the extraction prompt template.
func RenderPrompt(in PromptInput) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("rendering extraction prompt: %w", err)
	}
	return buf.String(), nil
}

// TextPrompt appends the JSON shape instructions used for free-text
// generation.
func TextPrompt(prompt string) string {
	return prompt + "\n" + schema.ShapeHint()
}
