// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

func TestScore(t *testing.T) {
	full := types.SupplierRecord{
		CompanyName:  "Acme",
		ContactEmail: "a@acme.com",
		ContactPhone: "021 555 0100",
		Location:     "Cape Town",
		Industry:     "Retail",
		Website:      "https://acme.com",
		Employees:    "50",
		Founded:      "1998",
		Services:     []string{"Rental"},
		Products:     []string{"Speakers"},
	}

	tests := []struct {
		name string
		rec  types.SupplierRecord
		want float64
	}{
		{"empty", types.SupplierRecord{}, 0},
		{"company only", types.SupplierRecord{CompanyName: "Acme"}, 30},
		{"full", full, 100},
		{"company and contacts", types.SupplierRecord{CompanyName: "Acme", ContactEmail: "a@acme.com", ContactPhone: "1"}, 55},
		{"services only rounds", types.SupplierRecord{Services: []string{"x"}}, 3},
		{"unweighted fields ignored", types.SupplierRecord{Brands: []string{"Yamaha"}, TaxID: "123"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.rec))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	recs := []types.SupplierRecord{
		{},
		{Website: "x"},
		{Services: []string{"a"}, Products: []string{"b"}},
		{CompanyName: "a", Industry: "b", Founded: "c"},
	}
	for _, r := range recs {
		s := Score(r)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
		assert.Equal(t, float64(int(s)), s)
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 30.0, Mean([]float64{30}))
	assert.Equal(t, 47.5, Mean([]float64{40, 55}))
}

func TestMissing(t *testing.T) {
	missing := Missing(types.SupplierRecord{CompanyName: "Acme", Services: []string{"x"}})
	assert.NotContains(t, missing, "companyName")
	assert.NotContains(t, missing, "services")
	assert.Contains(t, missing, "products")
	assert.Len(t, missing, 8)
}
