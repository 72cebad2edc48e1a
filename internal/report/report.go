// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders extraction output for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q: use json, yaml or table", s)
}

// valueWidth caps the value column of the table.
const valueWidth = 80

// Write renders out to w in the given format.
func Write(w io.Writer, f Format, out types.ExtractionOutput) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTable, "":
		return writeTable(w, out)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// Rows flattens a record into field/value pairs in schema order. Absent
// fields are omitted.
func Rows(r types.SupplierRecord) [][2]string {
	var rows [][2]string
	for _, f := range r.ScalarFields() {
		if *f.Value != "" {
			rows = append(rows, [2]string{f.Name, *f.Value})
		}
	}
	for _, f := range r.ListFields() {
		if len(*f.Value) > 0 {
			rows = append(rows, [2]string{f.Name, strings.Join(*f.Value, ", ")})
		}
	}
	if sm := r.SocialMedia; !sm.IsEmpty() {
		for _, p := range [][2]string{{"linkedin", sm.LinkedIn}, {"twitter", sm.Twitter}, {"facebook", sm.Facebook}} {
			if p[1] != "" {
				rows = append(rows, [2]string{"socialMedia." + p[0], p[1]})
			}
		}
	}
	for i, a := range r.Addresses {
		rows = append(rows, [2]string{fmt.Sprintf("addresses[%d]", i), formatAddress(a)})
	}
	for i, b := range r.BrandLinks {
		v := b.Name
		if b.URL != "" {
			v += " <" + b.URL + ">"
		}
		rows = append(rows, [2]string{fmt.Sprintf("brandLinks[%d]", i), v})
	}
	return rows
}

func formatAddress(a types.Address) string {
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, ", ")
	if a.Type != "" {
		s = "(" + string(a.Type) + ") " + s
	}
	return s
}

func writeTable(w io.Writer, out types.ExtractionOutput) error {
	rows := Rows(out.Record)

	width := len("Field")
	for _, r := range rows {
		if n := runewidth.StringWidth(r[0]); n > width {
			width = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", runewidth.FillRight("Field", width), "Value")
	b.WriteString(strings.Repeat("-", width+2+valueWidth) + "\n")
	if len(rows) == 0 {
		b.WriteString("(empty record)\n")
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", runewidth.FillRight(r[0], width), runewidth.Truncate(r[1], valueWidth, "..."))
	}

	m := out.Metadata
	fmt.Fprintf(&b, "\nconfidence: %.0f\n", m.Confidence)
	fmt.Fprintf(&b, "sources: %s\n", strings.Join(m.Sources, ", "))
	fmt.Fprintf(&b, "attempted: %s\n", strings.Join(m.ProvidersAttempted, ", "))
	if len(m.ProvidersSkipped) > 0 {
		fmt.Fprintf(&b, "skipped: %s\n", strings.Join(m.ProvidersSkipped, ", "))
	}
	for _, f := range m.Failures {
		fmt.Fprintf(&b, "failed: %s (%s)\n", f.Provider, f.Kind)
	}
	if m.FallbackUsed {
		b.WriteString("fallback: rule-based extraction\n")
	}
	if m.RequestID != "" {
		fmt.Fprintf(&b, "request: %s\n", m.RequestID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
