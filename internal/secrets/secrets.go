// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves provider API keys. Keys are read from a directory
// of plain-text files, one per vendor (anthropic-api-key, openai-api-key,
// gemini-api-key, openai_compatible-api-key), and from environment variables
// (ANTHROPIC_API_KEY, OPENAI_API_KEY, ...). A key set in the configuration
// always wins.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// DefaultDir is the secrets directory used by the CLI.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// FileName is the secrets file holding the key for vendor.
func FileName(v types.Vendor) string {
	return string(v) + "-api-key"
}

// EnvVar is the environment variable holding the key for vendor.
func EnvVar(v types.Vendor) string {
	return strings.ToUpper(string(v)) + "_API_KEY"
}

// Lookup returns the key for vendor from files, then from the environment.
// getenv defaults to os.Getenv.
func Lookup(v types.Vendor, files map[string]string, getenv func(string) string) string {
	if k := files[FileName(v)]; k != "" {
		return k
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(EnvVar(v)))
}

// Apply returns a copy of providers with every blank APIKey filled from
// files or the environment. Providers that still have no key keep an empty
// APIKey and are later reported as unavailable.
func Apply(providers []types.ProviderConfig, files map[string]string, getenv func(string) string) []types.ProviderConfig {
	out := make([]types.ProviderConfig, len(providers))
	copy(out, providers)
	for i := range out {
		if strings.TrimSpace(out[i].APIKey) == "" {
			out[i].APIKey = Lookup(out[i].Vendor, files, getenv)
		}
	}
	return out
}
