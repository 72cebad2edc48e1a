// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ScrapedContent is the page content handed to the extraction pipeline by an
// external fetcher. The pipeline never modifies it.
type ScrapedContent struct {
	// URL is the page the content was fetched from.
	URL string `json:"url" yaml:"url"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Description is the meta description or search snippet.
	Description string `json:"description" yaml:"description"`

	// Content is the cleaned visible text of the page, if the fetcher produced one.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// RawHTML is the unmodified page markup, if available.
	RawHTML string `json:"rawHtml,omitempty" yaml:"rawHtml,omitempty"`
}

// AddressType classifies a physical address of a supplier.
type AddressType string

const (
	AddressHeadquarters  AddressType = "headquarters"
	AddressBilling       AddressType = "billing"
	AddressShipping      AddressType = "shipping"
	AddressWarehouse     AddressType = "warehouse"
	AddressManufacturing AddressType = "manufacturing"
)

// ParseAddressType maps a free-form type label to a known AddressType.
// The second return value is false for empty or unknown labels.
func ParseAddressType(s string) (AddressType, bool) {
	switch t := AddressType(strings.ToLower(strings.TrimSpace(s))); t {
	case AddressHeadquarters, AddressBilling, AddressShipping, AddressWarehouse, AddressManufacturing:
		return t, true
	}
	return "", false
}

// Address is a physical location of a supplier.
type Address struct {
	Type       AddressType `json:"type,omitempty" yaml:"type,omitempty"`
	Street     string      `json:"street,omitempty" yaml:"street,omitempty"`
	City       string      `json:"city,omitempty" yaml:"city,omitempty"`
	State      string      `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode string      `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Country    string      `json:"country,omitempty" yaml:"country,omitempty"`
}

// BrandLink associates a carried brand with its page or logo.
type BrandLink struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Logo string `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// SocialMedia holds profile URLs per platform.
type SocialMedia struct {
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty" yaml:"facebook,omitempty"`
}

// IsEmpty reports whether no platform is set.
func (s *SocialMedia) IsEmpty() bool {
	return s == nil || (s.LinkedIn == "" && s.Twitter == "" && s.Facebook == "")
}

// SupplierRecord is the canonical structured business profile. An empty
// string or nil slice means the field is absent.
type SupplierRecord struct {
	CompanyName        string `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
	Industry           string `json:"industry,omitempty" yaml:"industry,omitempty"`
	Location           string `json:"location,omitempty" yaml:"location,omitempty"`
	ContactEmail       string `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	ContactPhone       string `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	ContactPerson      string `json:"contactPerson,omitempty" yaml:"contactPerson,omitempty"`
	Website            string `json:"website,omitempty" yaml:"website,omitempty"`
	Employees          string `json:"employees,omitempty" yaml:"employees,omitempty"`
	Founded            string `json:"founded,omitempty" yaml:"founded,omitempty"`
	Revenue            string `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	BusinessType       string `json:"businessType,omitempty" yaml:"businessType,omitempty"`
	TaxID              string `json:"taxId,omitempty" yaml:"taxId,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty" yaml:"registrationNumber,omitempty"`
	VATNumber          string `json:"vatNumber,omitempty" yaml:"vatNumber,omitempty"`
	Currency           string `json:"currency,omitempty" yaml:"currency,omitempty"`
	PaymentTerms       string `json:"paymentTerms,omitempty" yaml:"paymentTerms,omitempty"`
	LeadTime           string `json:"leadTime,omitempty" yaml:"leadTime,omitempty"`
	MinimumOrderValue  string `json:"minimumOrderValue,omitempty" yaml:"minimumOrderValue,omitempty"`

	Certifications []string `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Services       []string `json:"services,omitempty" yaml:"services,omitempty"`
	Products       []string `json:"products,omitempty" yaml:"products,omitempty"`
	Brands         []string `json:"brands,omitempty" yaml:"brands,omitempty"`
	Categories     []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	SocialMedia *SocialMedia `json:"socialMedia,omitempty" yaml:"socialMedia,omitempty"`
	Addresses   []Address    `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	BrandLinks  []BrandLink  `json:"brandLinks,omitempty" yaml:"brandLinks,omitempty"`
}

// IsEmpty reports whether the record carries no data at all.
func (r *SupplierRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, f := range r.ScalarFields() {
		if *f.Value != "" {
			return false
		}
	}
	for _, f := range r.ListFields() {
		if len(*f.Value) > 0 {
			return false
		}
	}
	return r.SocialMedia.IsEmpty() && len(r.Addresses) == 0 && len(r.BrandLinks) == 0
}

// ScalarField names one string field of a record and points at its value.
type ScalarField struct {
	Name  string
	Value *string
}

// ListField names one list field of a record and points at its value.
type ListField struct {
	Name  string
	Value *[]string
}

// ScalarFields returns pointers to every scalar field, in schema order.
func (r *SupplierRecord) ScalarFields() []ScalarField {
	return []ScalarField{
		{"companyName", &r.CompanyName},
		{"description", &r.Description},
		{"industry", &r.Industry},
		{"location", &r.Location},
		{"contactEmail", &r.ContactEmail},
		{"contactPhone", &r.ContactPhone},
		{"contactPerson", &r.ContactPerson},
		{"website", &r.Website},
		{"employees", &r.Employees},
		{"founded", &r.Founded},
		{"revenue", &r.Revenue},
		{"businessType", &r.BusinessType},
		{"taxId", &r.TaxID},
		{"registrationNumber", &r.RegistrationNumber},
		{"vatNumber", &r.VATNumber},
		{"currency", &r.Currency},
		{"paymentTerms", &r.PaymentTerms},
		{"leadTime", &r.LeadTime},
		{"minimumOrderValue", &r.MinimumOrderValue},
	}
}

// ListFields returns pointers to every string-list field, in schema order.
func (r *SupplierRecord) ListFields() []ListField {
	return []ListField{
		{"certifications", &r.Certifications},
		{"services", &r.Services},
		{"products", &r.Products},
		{"brands", &r.Brands},
		{"categories", &r.Categories},
		{"tags", &r.Tags},
	}
}

// Clone returns a deep copy of the record.
func (r SupplierRecord) Clone() SupplierRecord {
	out := r
	for _, f := range out.ListFields() {
		if *f.Value != nil {
			*f.Value = append([]string(nil), *f.Value...)
		}
	}
	if r.SocialMedia != nil {
		sm := *r.SocialMedia
		out.SocialMedia = &sm
	}
	if r.Addresses != nil {
		out.Addresses = append([]Address(nil), r.Addresses...)
	}
	if r.BrandLinks != nil {
		out.BrandLinks = append([]BrandLink(nil), r.BrandLinks...)
	}
	return out
}
