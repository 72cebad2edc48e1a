// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema coerces loosely shaped provider output into the canonical
// SupplierRecord and describes that record to providers.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// ErrNotObject is returned by Coerce when the input is not a JSON object.
var ErrNotObject = errors.New("provider output is not a JSON object")

// FieldError records a single field that was dropped during coercion.
// Sibling fields are never affected by a FieldError.
type FieldError struct {
	Field  string          `json:"field" yaml:"field"`
	Kind   types.ErrorKind `json:"kind" yaml:"kind"`
	Reason string          `json:"reason" yaml:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// EmailPattern is the accepted shape of an email address.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field aliases accepted in addition to the canonical camelCase name and its
// snake_case form.
var aliases = map[string][]string{
	"companyName":  {"company", "name"},
	"contactEmail": {"email"},
	"contactPhone": {"phone", "telephone"},
	"website":      {"url"},
	"employees":    {"employeeCount"},
	"founded":      {"foundedYear", "yearFounded"},
	"street":       {"addressLine1", "address_line1", "line1", "streetAddress"},
	"postalCode":   {"zip", "zipCode", "postcode"},
	"state":        {"province", "region"},
	"twitter":      {"x"},
	"socialMedia":  {"social"},
	"addresses":    {"address"},
}

// urlFields hold URLs and are validated as such.
var urlFields = map[string]bool{"website": true}

// Coerce converts raw provider output into a SupplierRecord. It fails only
// when raw is not an object; individual malformed fields are dropped and
// reported as FieldErrors.
func Coerce(raw any) (types.SupplierRecord, []FieldError, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.SupplierRecord{}, nil, fmt.Errorf("%w: got %T", ErrNotObject, raw)
	}

	c := &coercer{}
	var rec types.SupplierRecord

	for _, f := range rec.ScalarFields() {
		v, ok := lookup(obj, f.Name)
		if !ok {
			continue
		}
		s, ok := c.scalar(f.Name, v)
		if !ok || s == "" {
			continue
		}
		switch {
		case f.Name == "contactEmail":
			s = strings.TrimPrefix(s, "mailto:")
			if !EmailPattern.MatchString(s) {
				c.drop(f.Name, types.ErrValidationFailure, fmt.Sprintf("invalid email %q", s))
				continue
			}
		case urlFields[f.Name]:
			if !validURL(s) {
				c.drop(f.Name, types.ErrValidationFailure, fmt.Sprintf("malformed URL %q", s))
				continue
			}
		}
		*f.Value = s
	}

	for _, f := range rec.ListFields() {
		v, ok := lookup(obj, f.Name)
		if !ok {
			continue
		}
		*f.Value = c.list(f.Name, v)
	}

	if v, ok := lookup(obj, "socialMedia"); ok {
		rec.SocialMedia = c.social(v)
	}
	if v, ok := lookup(obj, "addresses"); ok {
		rec.Addresses = c.addresses(v)
	}
	if v, ok := lookup(obj, "brandLinks"); ok {
		rec.BrandLinks = c.brandLinks(v)
	}

	return rec, c.errs, nil
}

type coercer struct {
	errs []FieldError
}

func (c *coercer) drop(field string, kind types.ErrorKind, reason string) {
	c.errs = append(c.errs, FieldError{Field: field, Kind: kind, Reason: reason})
}

// scalar renders v as a trimmed string. Numbers and booleans are formatted;
// objects and arrays are rejected. A nil value is absent, not an error.
func (c *coercer) scalar(field string, v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	}
	c.drop(field, types.ErrValidationFailure, fmt.Sprintf("expected string, got %T", v))
	return "", false
}

func (c *coercer) list(field string, v any) []string {
	var items []any
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		items = x
	case map[string]any:
		c.drop(field, types.ErrValidationFailure, "expected list, got object")
		return nil
	default:
		items = []any{x}
	}

	var out []string
	for i, item := range items {
		// Lists of {"name": ...} objects are common for brands.
		if m, ok := item.(map[string]any); ok {
			item, _ = lookup(m, "name")
		}
		s, ok := c.scalar(fmt.Sprintf("%s[%d]", field, i), item)
		if ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *coercer) social(v any) *types.SocialMedia {
	m, ok := v.(map[string]any)
	if !ok {
		if v != nil {
			c.drop("socialMedia", types.ErrValidationFailure, fmt.Sprintf("expected object, got %T", v))
		}
		return nil
	}
	sm := &types.SocialMedia{}
	for name, dst := range map[string]*string{
		"linkedin": &sm.LinkedIn,
		"twitter":  &sm.Twitter,
		"facebook": &sm.Facebook,
	} {
		raw, ok := lookup(m, name)
		if !ok {
			continue
		}
		field := "socialMedia." + name
		s, ok := c.scalar(field, raw)
		if !ok || s == "" {
			continue
		}
		if !validURL(s) {
			c.drop(field, types.ErrValidationFailure, fmt.Sprintf("malformed URL %q", s))
			continue
		}
		*dst = s
	}
	if sm.IsEmpty() {
		return nil
	}
	return sm
}

func (c *coercer) addresses(v any) []types.Address {
	var items []any
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		items = x
	default:
		items = []any{x}
	}

	var out []types.Address
	for i, item := range items {
		field := fmt.Sprintf("addresses[%d]", i)
		switch x := item.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				out = append(out, types.Address{Street: s})
			}
		case map[string]any:
			var a types.Address
			var typ string
			for name, dst := range map[string]*string{
				"type":       &typ,
				"street":     &a.Street,
				"city":       &a.City,
				"state":      &a.State,
				"postalCode": &a.PostalCode,
				"country":    &a.Country,
			} {
				if raw, ok := lookup(x, name); ok {
					*dst, _ = c.scalar(field+"."+name, raw)
				}
			}
			a.Type = types.AddressType(strings.ToLower(typ))
			if a != (types.Address{}) {
				out = append(out, a)
			}
		case nil:
		default:
			c.drop(field, types.ErrValidationFailure, fmt.Sprintf("expected object, got %T", item))
		}
	}
	return out
}

func (c *coercer) brandLinks(v any) []types.BrandLink {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil
		}
		items = []any{v}
	}

	var out []types.BrandLink
	for i, item := range items {
		field := fmt.Sprintf("brandLinks[%d]", i)
		switch x := item.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				out = append(out, types.BrandLink{Name: s})
			}
		case map[string]any:
			var bl types.BrandLink
			if raw, ok := lookup(x, "name"); ok {
				bl.Name, _ = c.scalar(field+".name", raw)
			}
			if bl.Name == "" {
				c.drop(field, types.ErrValidationFailure, "brand link without name")
				continue
			}
			for name, dst := range map[string]*string{"url": &bl.URL, "logo": &bl.Logo} {
				raw, ok := lookup(x, name)
				if !ok {
					continue
				}
				s, _ := c.scalar(field+"."+name, raw)
				if s != "" && !validURL(s) {
					c.drop(field+"."+name, types.ErrValidationFailure, fmt.Sprintf("malformed URL %q", s))
					continue
				}
				*dst = s
			}
			out = append(out, bl)
		case nil:
		default:
			c.drop(field, types.ErrValidationFailure, fmt.Sprintf("expected object, got %T", item))
		}
	}
	return out
}

// lookup finds a field by its canonical name, its snake_case form, or a
// known alias. A present null is reported as found with a nil value.
func lookup(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	if v, ok := obj[snakeCase(name)]; ok {
		return v, true
	}
	for _, alias := range aliases[name] {
		if v, ok := obj[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// validURL accepts http(s) URLs and scheme-less host names such as
// "www.example.com/about". Anything with whitespace, a foreign scheme or no
// host is malformed.
func validURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	candidate := s
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(s, "//"):
		candidate = "https:" + s
	case strings.Contains(s, "://"):
		return false
	default:
		candidate = "https://" + s
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host != "" && (strings.Contains(host, ".") || host == "localhost")
}
