package tui

import (
	"encoding/json"
	"errors"
	"io"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// JSONOutput writes one JSON object per message, for CI and other
// non-interactive consumers.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type jsonStage struct {
	Type   string `json:"type"`
	Gate   string `json:"gate"`
	Step   string `json:"step"`
	Status string `json:"status"`
}

// Success outputs {"type": "success", "message": "..."}.
func (o *JSONOutput) Success(msg string) {
	o.message("success", msg)
}

// Error outputs {"type": "error", "message": "...", "details": "...", "suggestion": "..."}.
// Details holds the wrapped error's text, if any.
func (o *JSONOutput) Error(err error) {
	message, action := qgerrors.Actionable(err)
	jsonErr := jsonError{
		Type:       "error",
		Message:    message,
		Suggestion: action,
	}
	if message != err.Error() {
		jsonErr.Details = err.Error()
	} else if wrapped := errors.Unwrap(err); wrapped != nil {
		jsonErr.Details = wrapped.Error()
	}

	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonErr)
}

// Warning outputs {"type": "warning", "message": "..."}.
func (o *JSONOutput) Warning(msg string) {
	o.message("warning", msg)
}

// Info outputs {"type": "info", "message": "..."}.
func (o *JSONOutput) Info(msg string) {
	o.message("info", msg)
}

// Heading outputs {"type": "heading", "message": "..."}.
func (o *JSONOutput) Heading(msg string) {
	o.message("heading", msg)
}

// Stage outputs finished steps only, as {"type": "stage", ...}.
func (o *JSONOutput) Stage(gate, step, status string) {
	if status == StatusRunning {
		return
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonStage{Type: "stage", Gate: gate, Step: step, Status: status})
}

// Table outputs rows as an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(result)
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}

func (o *JSONOutput) message(kind, msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: kind, Message: msg})
}

// Ensure JSONOutput implements Output.
var _ Output = (*JSONOutput)(nil)
