package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and runs it over a scraped-content file, printing
// the record as JSON. Providers come from supplier-extract.yaml.
func Extract(file string) error {
	mg.Deps(Build)
	if file == "" {
		return fmt.Errorf("usage: mage extract <content-file>")
	}
	return sh.RunV("./"+binDir+"/"+binName, "extract", "--format", "json", file)
}
