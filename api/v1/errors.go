package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// duplicateMarker identifies a duplicate check-in in an error body.
const duplicateMarker = "already checked in"

// APIError is a non-2xx response. Body is kept verbatim; it may be a JSON
// string, {"detail": "..."} or a field-keyed validation map.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status code %d: %s", e.Method, e.Path, e.StatusCode, e.Detail())
}

// Detail is the human readable message of the body.
func (e *APIError) Detail() string {
	var s string
	if err := json.Unmarshal(e.Body, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &obj); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if raw, ok := obj[key]; ok {
				if err := json.Unmarshal(raw, &s); err == nil {
					return s
				}
			}
		}
		if lines := e.ValidationLines(); len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	if text := strings.TrimSpace(string(e.Body)); text != "" {
		return text
	}
	return http.StatusText(e.StatusCode)
}

// FieldErrors extracts a field-keyed validation map. Values may be a string or
// a list of strings. Keys detail/message/error are not fields.
func (e *APIError) FieldErrors() map[string][]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &obj); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for key, raw := range obj {
		switch key {
		case "detail", "message", "error":
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			fields[key] = list
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			fields[key] = []string{s}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ValidationLines renders FieldErrors as sorted "field: message" lines.
func (e *APIError) ValidationLines() []string {
	fields := e.FieldErrors()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(fields[k], " ")))
	}
	return lines
}

func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest && len(e.FieldErrors()) > 0
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *APIError) IsPreconditionFailed() bool {
	return e.StatusCode == http.StatusPreconditionFailed
}

func (e *APIError) IsDuplicateCheckIn() bool {
	if e.StatusCode != http.StatusConflict && e.StatusCode != http.StatusBadRequest {
		return false
	}
	return strings.Contains(strings.ToLower(string(e.Body)), duplicateMarker)
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
