package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMessage is returned for blank input; no request is made.
var ErrEmptyMessage = errors.New("message is empty")

// EmptyMessageText is what the form shows for ErrEmptyMessage.
const EmptyMessageText = "Please enter a message."

// ErrMissingPrediction is returned when a 2xx body carries no label.
var ErrMissingPrediction = errors.New("response did not include a prediction")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	if e.Detail != "" {
		msg += " - " + e.Detail
	}
	return msg
}

// ValidateMessage rejects empty and whitespace-only input.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// parseErrorDetail extracts the detail shown next to a failing status code.
// A truthy "error" field wins: strings verbatim, anything else as JSON.
// Otherwise the whole body is shown. Non-JSON and null bodies carry no
// detail.
func parseErrorDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) || string(body) == "null" {
		return ""
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(body, &obj) == nil {
		if raw, ok := obj["error"]; ok {
			var v any
			if json.Unmarshal(raw, &v) == nil && truthy(v) {
				if s, ok := v.(string); ok {
					return s
				}
				return compactJSON(raw)
			}
		}
	}

	return compactJSON(body)
}

// truthy reports whether a decoded JSON value counts as present.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// FailureMessage renders err as the text shown to the user. Validation
// errors pass through unchanged; request failures get a hint naming the
// endpoint.
func FailureMessage(err error, endpoint string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyMessage) {
		return EmptyMessageText
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}
	return fmt.Sprintf("Failed to get prediction. %s. Please ensure the API server at %s is running and accessible.",
		strings.TrimSuffix(err.Error(), "."), endpoint)
}
