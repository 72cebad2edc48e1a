// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

func TestFilterBrands_RejectionRules(t *testing.T) {
	p := Default()

	tests := []struct {
		brand string
		rule  string
	}{
		{"X", RuleLength},
		{"A Brand Name That Is Far Too Long To Be Real", RuleLength},
		{"12345", RuleNoLetters},
		{"--", RuleNoLetters},
		{"Digital Distribution Platform", RuleProductService},
		{"Music Marketing Services", RuleProductService},
		{"Royalty", RuleProductService},
		{"button 01", RuleUIElement},
		{"Subscribe", RuleUIElement},
		{"logo 3", RuleUIElement},
		{"Footer", RuleUIElement},
		{"Whatsapp Image", RuleUIElement},
		{"Shop All", RuleUIElement},
		{"AT-VMN40xML", RuleProductModel},
		{"XDJ", RuleProductModel},
		{"Replacement Stylus", RuleProductModel},
		{"Marshall and Co", RuleProductModel},
		{"Soundpress", RuleMagazine},
		{"Musicgear Blog", RuleMagazine},
		{"Klark Teknik Audio Group", RuleWordCount},
		{"pioneer dj", RuleLowercaseMultiWord},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			kept, rejected := p.FilterBrands([]string{tt.brand})
			assert.Empty(t, kept)
			require.Len(t, rejected, 1)
			assert.Equal(t, tt.rule, rejected[0].Rule)
		})
	}
}

func TestFilterBrands_KeepsRealBrands(t *testing.T) {
	p := Default()
	brands := []string{
		"Yamaha", "Shure", "Pioneer DJ", "Gibson", "Epiphone", "audio-technica",
		"KRK SYSTEMS", "TANNOY", "MIDAS", "AEROBAND", "AlphaTheta",
		"Blackstar AMPLIFICATION", "dBTechnologies", "HK AUDIO", "KLARK TEKNIK",
		"Turbosound", "Webasto", "Linkin",
	}
	kept, rejected := p.FilterBrands(brands)
	assert.Empty(t, rejected)
	assert.Equal(t, brands, kept)
}

func TestFilterBrands_MonthYearRejected(t *testing.T) {
	p := Default()
	kept, rejected := p.FilterBrands([]string{"Apr 2025", "Yamaha"})
	assert.Equal(t, []string{"Yamaha"}, kept)
	require.Len(t, rejected, 1)
	assert.Equal(t, "Apr 2025", rejected[0].Brand)
}

func TestFilterBrands_Idempotent(t *testing.T) {
	p := Default()
	inputs := [][]string{
		{"Yamaha", "yamaha", "YAMAHA", "Shure"},
		{"audio technica", "Audio Technica", "Audio-Technica", "AudioTechnica"},
		{"Klark Teknik", "KlarkTeknik", "button 01", "  Gibson  ", "gibson"},
		{"Tannoy™", "TANNOY", "Digital Distribution Platform"},
		nil,
	}
	for _, in := range inputs {
		once, _ := p.FilterBrands(in)
		twice, rejected := p.FilterBrands(once)
		assert.Equal(t, once, twice)
		assert.Empty(t, rejected)
	}
}

func TestDedupeBrands(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"case variants", []string{"Yamaha", "yamaha", "YAMAHA"}, []string{"Yamaha"}},
		{"capitalised replaces lowercase in place", []string{"shure", "Yamaha", "Shure"}, []string{"Shure", "Yamaha"}},
		{"hyphenated preferred", []string{"Audio Technica", "Audio-Technica"}, []string{"Audio-Technica"}},
		{"unspaced preferred", []string{"Klark Teknik", "KlarkTeknik"}, []string{"KlarkTeknik"}},
		{"lowercase never wins", []string{"Klark Teknik", "klarkteknik"}, []string{"Klark Teknik"}},
		{"trademark and zero-width ignored", []string{"Tannoy", "Tannoy®", "Tan\u200bnoy"}, []string{"Tannoy"}},
		{"fullwidth folded", []string{"ＫＲＫ", "KRK"}, []string{"ＫＲＫ"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeBrands(tt.in))
		})
	}
}

func TestBrandKey(t *testing.T) {
	assert.Equal(t, "audiotechnica", BrandKey("Audio-Technica™"))
	assert.Equal(t, "krk", BrandKey("ＫＲＫ"))
	assert.Equal(t, "", BrandKey(" -_ "))
}

func TestProcess_RejectHookCountsRules(t *testing.T) {
	counts := map[string]int{}
	p, err := New(DefaultPatterns(), types.FilterConfig{}, WithRejectHook(func(rule string) { counts[rule]++ }))
	require.NoError(t, err)

	out := p.Process(types.SupplierRecord{Brands: []string{"Yamaha", "button 01", "logo 3", "Streaming"}}, "")
	assert.Equal(t, []string{"Yamaha"}, out.Brands)
	assert.Equal(t, map[string]int{RuleUIElement: 2, RuleProductService: 1}, counts)
}

func TestFilterBrands_ConfigurableThresholds(t *testing.T) {
	p, err := New(DefaultPatterns(), types.FilterConfig{BrandMaxWords: 4})
	require.NoError(t, err)
	kept, _ := p.FilterBrands([]string{"Klark Teknik Audio Group"})
	assert.Equal(t, []string{"Klark Teknik Audio Group"}, kept)
}
