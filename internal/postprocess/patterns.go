// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

//go:embed patterns.yaml
var defaultPatternsYAML []byte

// Patterns holds the noise pattern tables as data. Each entry is an RE2
// expression; matching is case-insensitive.
type Patterns struct {
	ProductService []string `json:"product_service" yaml:"product_service"`
	UIElement      []string `json:"ui_element" yaml:"ui_element"`
	ProductModel   []string `json:"product_model" yaml:"product_model"`
	Magazine       []string `json:"magazine" yaml:"magazine"`
	AddressNoise   []string `json:"address_noise" yaml:"address_noise"`
	StreetKeyword  string   `json:"street_keyword" yaml:"street_keyword"`
	CityCountry    string   `json:"city_country" yaml:"city_country"`
}

// DefaultPatterns returns the built-in pattern tables.
func DefaultPatterns() Patterns {
	var p Patterns
	if err := yaml.Unmarshal(defaultPatternsYAML, &p); err != nil {
		panic(fmt.Sprintf("postprocess: embedded patterns.yaml: %v", err))
	}
	return p
}

// LoadPatterns reads pattern tables from a YAML file. Tables missing from the
// file keep their built-in values.
func LoadPatterns(path string) (Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patterns{}, fmt.Errorf("reading patterns %s: %w", path, err)
	}
	p := DefaultPatterns()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Patterns{}, fmt.Errorf("parsing patterns %s: %w", path, err)
	}
	if _, err := p.compile(); err != nil {
		return Patterns{}, fmt.Errorf("patterns %s: %w", path, err)
	}
	return p, nil
}

type compiledPatterns struct {
	productService []*regexp.Regexp
	uiElement      []*regexp.Regexp
	productModel   []*regexp.Regexp
	magazine       []*regexp.Regexp
	addressNoise   []*regexp.Regexp
	streetKeyword  *regexp.Regexp
	cityCountry    *regexp.Regexp
}

func (p Patterns) compile() (*compiledPatterns, error) {
	c := &compiledPatterns{}
	tables := []struct {
		name string
		src  []string
		dst  *[]*regexp.Regexp
	}{
		{"product_service", p.ProductService, &c.productService},
		{"ui_element", p.UIElement, &c.uiElement},
		{"product_model", p.ProductModel, &c.productModel},
		{"magazine", p.Magazine, &c.magazine},
		{"address_noise", p.AddressNoise, &c.addressNoise},
	}
	for _, t := range tables {
		for _, expr := range t.src {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("compiling %s pattern %q: %w", t.name, expr, err)
			}
			*t.dst = append(*t.dst, re)
		}
	}

	var err error
	if c.streetKeyword, err = compileSingle("street_keyword", p.StreetKeyword); err != nil {
		return nil, err
	}
	if c.cityCountry, err = compileSingle("city_country", p.CityCountry); err != nil {
		return nil, err
	}
	return c, nil
}

// compileSingle compiles a one-pattern table. An empty pattern never matches.
func compileSingle(name, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		expr = `[^\s\S]`
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %s %q: %w", name, expr, err)
	}
	return re, nil
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
