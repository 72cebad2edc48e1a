// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confidence scores how complete a supplier record is. The score says
// nothing about factual correctness.
package confidence

import (
	"math"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// weight is one entry of the completeness checklist.
type weight struct {
	field   string
	points  float64
	present func(r *types.SupplierRecord) bool
}

var checklist = []weight{
	{"companyName", 30, func(r *types.SupplierRecord) bool { return r.CompanyName != "" }},
	{"contactEmail", 15, func(r *types.SupplierRecord) bool { return r.ContactEmail != "" }},
	{"contactPhone", 10, func(r *types.SupplierRecord) bool { return r.ContactPhone != "" }},
	{"location", 10, func(r *types.SupplierRecord) bool { return r.Location != "" }},
	{"industry", 10, func(r *types.SupplierRecord) bool { return r.Industry != "" }},
	{"website", 10, func(r *types.SupplierRecord) bool { return r.Website != "" }},
	{"employees", 5, func(r *types.SupplierRecord) bool { return r.Employees != "" }},
	{"founded", 5, func(r *types.SupplierRecord) bool { return r.Founded != "" }},
	{"services", 2.5, func(r *types.SupplierRecord) bool { return len(r.Services) > 0 }},
	{"products", 2.5, func(r *types.SupplierRecord) bool { return len(r.Products) > 0 }},
}

// maxPoints is the sum of all checklist weights.
var maxPoints = func() float64 {
	var sum float64
	for _, w := range checklist {
		sum += w.points
	}
	return sum
}()

// Score returns round(100 × achieved / maximum) for r, an integer value in
// [0, 100]. An empty record scores 0.
func Score(r types.SupplierRecord) float64 {
	var achieved float64
	for _, w := range checklist {
		if w.present(&r) {
			achieved += w.points
		}
	}
	return math.Round(100 * achieved / maxPoints)
}

// Mean returns the arithmetic mean of scores, or 0 for none.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Missing lists the checklist fields absent from r, in checklist order.
func Missing(r types.SupplierRecord) []string {
	var out []string
	for _, w := range checklist {
		if !w.present(&r) {
			out = append(out, w.field)
		}
	}
	return out
}
