// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/supplier-extract/internal/httputil"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Error is a classified provider failure.
type Error struct {
	Kind       types.ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Provider == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// schemaMarkers appear in vendor messages that reject schema-constrained requests.
var schemaMarkers = []string{
	"json_schema",
	"response_format",
	"text.format",
	"structured",
	"response_schema",
	"responseschema",
	"tool",
}

// Wrap classifies err and attaches the provider name. An err that is already
// an *Error keeps its kind.
func Wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Provider == "" {
			pe.Provider = provider
		}
		return pe
	}
	status, _ := statusAndMessage(err)
	return &Error{Kind: Classify(err), Provider: provider, StatusCode: status, Err: err}
}

// KindOf returns the classification of err, honoring an embedded *Error.
func KindOf(err error) types.ErrorKind {
	if err == nil {
		return types.ErrNone
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Classify(err)
}

// Classify maps a raw client error to an ErrorKind using the HTTP status and
// the vendor's message text.
func Classify(err error) types.ErrorKind {
	if err == nil {
		return types.ErrNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ErrTimeout
	}

	status, msg := statusAndMessage(err)
	msg = strings.ToLower(msg)

	if status == http.StatusTooManyRequests ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "resource_exhausted") {
		return types.ErrRateLimited
	}
	if status == http.StatusNotFound ||
		strings.Contains(msg, "model_not_found") ||
		strings.Contains(msg, "does not exist") {
		return types.ErrModelNotFound
	}
	if status == 0 || status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		for _, m := range schemaMarkers {
			if strings.Contains(msg, m) {
				return types.ErrSchemaUnsupported
			}
		}
	}
	return types.ErrProviderError
}

func statusAndMessage(err error) (int, string) {
	var se *httputil.StatusError
	if errors.As(err, &se) {
		return se.StatusCode, se.Body
	}
	var ae genai.APIError
	if errors.As(err, &ae) {
		return ae.Code, ae.Status + " " + ae.Message
	}
	var aep *genai.APIError
	if errors.As(err, &aep) && aep != nil {
		return aep.Code, aep.Status + " " + aep.Message
	}
	return 0, err.Error()
}
