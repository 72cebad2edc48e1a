// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Address rejection reasons.
const (
	AddressEmpty       = "empty"
	AddressNoise       = "noise"
	AddressTooLong     = "too_long"
	AddressUnlikely    = "unlikely"
	AddressNoIndicator = "no_indicator"
)

// likelyStreetLen is the street length above which a street must carry a
// number or a street keyword.
const likelyStreetLen = 50

var digitsRe = regexp.MustCompile(`\d+`)

// CheckAddress returns the reason an address is invalid, or "" when it is a
// plausible physical address.
func (p *Processor) CheckAddress(a types.Address) string {
	if a.Street == "" && a.City == "" {
		return AddressEmpty
	}

	hasNumber := digitsRe.MatchString(a.Street)
	hasKeyword := p.pats.streetKeyword.MatchString(a.Street)
	hasPlaces := p.pats.cityCountry.MatchString(a.Street)

	if a.Street != "" {
		if matchAny(p.pats.addressNoise, a.Street) {
			return AddressNoise
		}
		n := utf8.RuneCountInString(a.Street)
		if n > p.cfg.StreetMaxLen && !hasNumber && !hasKeyword {
			return AddressTooLong
		}
		if n > likelyStreetLen && !hasNumber && !hasKeyword {
			return AddressUnlikely
		}
	}

	if hasNumber || hasKeyword || hasPlaces || a.PostalCode != "" || (a.City != "" && a.Country != "") {
		return ""
	}
	return AddressNoIndicator
}

// AddressKey identifies an address for deduplication by street, city and country.
func AddressKey(a types.Address) string {
	return foldKey(a.Street) + "|" + foldKey(a.City) + "|" + foldKey(a.Country)
}

// DedupeAddresses removes addresses with a repeated AddressKey, keeping the
// first. Empty input yields nil.
func DedupeAddresses(addrs []types.Address) []types.Address {
	var out []types.Address
	seen := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		k := AddressKey(a)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// processAddresses trims, validates, types and deduplicates addresses. When
// none survive and location reads "city, ..., country", a headquarters
// address is derived from it.
func (p *Processor) processAddresses(addrs []types.Address, location string) []types.Address {
	locParts := splitLocation(location)

	var kept []types.Address
	for _, a := range addrs {
		a = trimAddress(a)
		if a.Country == "" && len(locParts) > 1 {
			a.Country = locParts[len(locParts)-1]
		}
		if reason := p.CheckAddress(a); reason != "" {
			p.logger.Debug("address rejected", zap.String("reason", reason), zap.String("street", a.Street))
			continue
		}
		if t, ok := types.ParseAddressType(string(a.Type)); ok {
			a.Type = t
		} else if len(kept) == 0 {
			a.Type = types.AddressHeadquarters
		} else {
			a.Type = types.AddressShipping
		}
		kept = append(kept, a)
	}
	kept = DedupeAddresses(kept)

	if len(kept) == 0 && len(locParts) > 1 {
		kept = []types.Address{{
			Type:    types.AddressHeadquarters,
			City:    locParts[0],
			Country: locParts[len(locParts)-1],
		}}
	}
	return kept
}

func splitLocation(location string) []string {
	var parts []string
	for _, p := range strings.Split(location, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func trimAddress(a types.Address) types.Address {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	return a
}
