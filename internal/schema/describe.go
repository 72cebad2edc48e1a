// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import "github.com/pdiddy/supplier-extract/pkg/types"

// descriptions documents each scalar and list field for providers that read
// schema descriptions.
var descriptions = map[string]string{
	"companyName":        "Official business name",
	"description":        "What the company does",
	"industry":           "Primary industry sector",
	"location":           "City, country or region",
	"contactEmail":       "Business email address",
	"contactPhone":       "Business phone number",
	"contactPerson":      "Named contact person",
	"website":            "Full website URL including https://",
	"employees":          `Employee count as text, e.g. "50-200"`,
	"founded":            "Year the company was established",
	"revenue":            "Revenue if mentioned",
	"businessType":       "Legal form, e.g. LLC, Inc, Pty Ltd",
	"taxId":              "Tax identifier",
	"registrationNumber": "Company registration number",
	"vatNumber":          "VAT number",
	"currency":           "Three-letter currency code",
	"paymentTerms":       "Payment terms",
	"leadTime":           "Typical lead time",
	"minimumOrderValue":  "Minimum order value",
	"certifications":     "Certifications such as ISO 9001",
	"services":           "Services offered",
	"products":           "Products offered (what the company sells, not brand names)",
	"brands":             "Manufacturer or distributor brand names the supplier carries",
	"categories":         "Product or service categories",
	"tags":               "Relevant keywords",
}

// JSONSchema returns the canonical record schema as a JSON Schema document.
// Every field is optional.
func JSONSchema() map[string]any {
	var r types.SupplierRecord
	props := map[string]any{}

	for _, f := range r.ScalarFields() {
		props[f.Name] = map[string]any{
			"type":        "string",
			"description": descriptions[f.Name],
		}
	}
	for _, f := range r.ListFields() {
		props[f.Name] = map[string]any{
			"type":        "array",
			"description": descriptions[f.Name],
			"items":       map[string]any{"type": "string"},
		}
	}

	props["socialMedia"] = map[string]any{
		"type":        "object",
		"description": "Social media profile URLs",
		"properties":  stringProps("linkedin", "twitter", "facebook"),
	}
	props["addresses"] = map[string]any{
		"type":        "array",
		"description": "Physical addresses; type is one of headquarters, billing, shipping, warehouse, manufacturing",
		"items": map[string]any{
			"type":       "object",
			"properties": stringProps("type", "street", "city", "state", "postalCode", "country"),
		},
	}
	props["brandLinks"] = map[string]any{
		"type":        "array",
		"description": "Brand pages or logos",
		"items": map[string]any{
			"type":       "object",
			"properties": stringProps("name", "url", "logo"),
			"required":   []any{"name"},
		},
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func stringProps(names ...string) map[string]any {
	m := make(map[string]any, len(names))
	for _, n := range names {
		m[n] = map[string]any{"type": "string"}
	}
	return m
}

// ShapeHint describes the record shape in prose for providers that are asked
// to answer with free text.
func ShapeHint() string {
	return shapeHint
}

const shapeHint = `IMPORTANT: You must respond with ONLY valid JSON matching this exact shape:
{
  "companyName": "string or omit",
  "description": "string or omit",
  "industry": "string or omit",
  "location": "string or omit",
  "contactEmail": "valid email or omit",
  "contactPhone": "string or omit",
  "contactPerson": "string or omit",
  "website": "full URL with https:// or omit",
  "employees": "string or omit",
  "founded": "string or omit",
  "socialMedia": {"linkedin": "full URL or omit", "twitter": "full URL or omit", "facebook": "full URL or omit"} or omit,
  "certifications": ["string"] or omit,
  "services": ["string"] or omit,
  "products": ["string"] or omit,
  "brands": ["string"] or omit,
  "categories": ["string"] or omit,
  "brandLinks": [{"name": "string", "url": "string or omit", "logo": "string or omit"}] or omit,
  "addresses": [{"type": "string", "street": "string", "city": "string", "state": "string", "postalCode": "string", "country": "string"}] or omit,
  "revenue": "string or omit",
  "businessType": "string or omit",
  "tags": ["string"] or omit,
  "taxId": "string or omit",
  "registrationNumber": "string or omit",
  "vatNumber": "string or omit",
  "currency": "string or omit",
  "paymentTerms": "string or omit",
  "leadTime": "string or omit",
  "minimumOrderValue": "string or omit"
}

Return ONLY the JSON object, no other text.`
