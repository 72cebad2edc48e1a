// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges the records produced by several providers into
// one. Merging is a pure left fold over the records in configured provider
// order, so the same inputs in the same order always give the same record.
package aggregate

import (
	"unicode/utf8"

	"github.com/pdiddy/supplier-extract/internal/postprocess"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// firstWins lists scalar fields where a length comparison means nothing:
// the first non-empty value is kept.
var firstWins = map[string]bool{
	"contactEmail":       true,
	"contactPhone":       true,
	"website":            true,
	"employees":          true,
	"founded":            true,
	"taxId":              true,
	"registrationNumber": true,
	"vatNumber":          true,
	"currency":           true,
}

// Merge reconciles records into one. ok is false when records is empty. A
// single record is returned unchanged.
func Merge(records []types.SupplierRecord, filter types.FilterConfig) (merged types.SupplierRecord, ok bool) {
	switch len(records) {
	case 0:
		return types.SupplierRecord{}, false
	case 1:
		return records[0].Clone(), true
	}

	filter.ApplyDefaults()
	acc := records[0].Clone()
	for _, r := range records[1:] {
		acc = mergeInto(acc, r)
	}

	acc.Brands = postprocess.DedupeBrands(acc.Brands)
	acc.Certifications = postprocess.DedupeFold(acc.Certifications)
	acc.Services = postprocess.DedupeFold(acc.Services)
	acc.Products = postprocess.DedupeFold(acc.Products)
	acc.Tags = postprocess.DedupeFold(acc.Tags)
	acc.Categories = postprocess.NormalizeCategories(acc.Categories, filter.MaxCategories)
	acc.Addresses = postprocess.DedupeAddresses(acc.Addresses)
	acc.BrandLinks = postprocess.NormalizeBrandLinks(acc.BrandLinks)
	return acc, true
}

// MergeResults merges the records of the successful results, keeping their
// order. Failed results are skipped.
func MergeResults(results []types.ProviderResult, filter types.FilterConfig) (types.SupplierRecord, bool) {
	var records []types.SupplierRecord
	for _, r := range results {
		if r.OK() {
			records = append(records, *r.Record)
		}
	}
	return Merge(records, filter)
}

// mergeInto folds next into acc. Lists are concatenated here and
// deduplicated once by Merge.
func mergeInto(acc, next types.SupplierRecord) types.SupplierRecord {
	nextScalars := next.ScalarFields()
	for i, f := range acc.ScalarFields() {
		candidate := *nextScalars[i].Value
		if candidate == "" {
			continue
		}
		switch {
		case *f.Value == "":
			*f.Value = candidate
		case !firstWins[f.Name] && utf8.RuneCountInString(candidate) > utf8.RuneCountInString(*f.Value):
			*f.Value = candidate
		}
	}

	nextLists := next.ListFields()
	for i, f := range acc.ListFields() {
		*f.Value = append(*f.Value, *nextLists[i].Value...)
	}

	acc.SocialMedia = mergeSocial(acc.SocialMedia, next.SocialMedia)
	acc.Addresses = append(acc.Addresses, next.Addresses...)
	acc.BrandLinks = append(acc.BrandLinks, next.BrandLinks...)
	return acc
}

// mergeSocial fills platforms missing from acc with those of next.
func mergeSocial(acc, next *types.SocialMedia) *types.SocialMedia {
	if next.IsEmpty() {
		return acc
	}
	if acc == nil {
		sm := *next
		return &sm
	}
	if acc.LinkedIn == "" {
		acc.LinkedIn = next.LinkedIn
	}
	if acc.Twitter == "" {
		acc.Twitter = next.Twitter
	}
	if acc.Facebook == "" {
		acc.Facebook = next.Facebook
	}
	return acc
}
