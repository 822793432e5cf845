package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable marks generator output that could not be decoded into
// the requested shape. Callers branch on it to build fallback values;
// it is never surfaced to HTTP clients.
var ErrUnparseable = errors.New("unparseable generation output")

// Extract strips a surrounding markdown code fence, if any, then
// strictly decodes the remainder into T. Any decode error is reported
// as ErrUnparseable with the cause attached; there is no partial or
// lenient recovery beyond the fence stripping.
func Extract[T any](raw string) (T, error) {
	var out T
	cleaned := StripFence(raw)
	if cleaned == "" {
		return out, fmt.Errorf("%w: empty output", ErrUnparseable)
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return out, nil
}

// StripFence removes a leading fence introducer line (``` or ```json)
// and a trailing fence line, then trims surrounding whitespace.
func StripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the rest of the introducer line ("json", "JSON", ...).
		text = text[idx+1:]
	} else {
		return ""
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
