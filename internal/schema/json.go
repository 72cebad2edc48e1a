// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject is returned when free text contains no parseable JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in response text")

// Decode parses data as a single JSON value. Numbers are decoded as float64.
func Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(bytes.TrimSpace(data), &v); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return v, nil
}

// FirstJSONObject returns the first syntactically valid JSON object embedded
// in text. Leading prose and markdown code fences are tolerated; a candidate
// starting at a '{' that does not parse is skipped and the scan continues.
func FirstJSONObject(text string) (map[string]any, error) {
	for i := 0; i < len(text); i++ {
		j := strings.IndexByte(text[i:], '{')
		if j < 0 {
			break
		}
		i += j

		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, nil
		}
	}
	return nil, ErrNoJSONObject
}
