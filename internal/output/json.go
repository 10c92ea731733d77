package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tovald/linkdrop/internal/engine"
)

// JSONHandler implements Handler for JSON output
type JSONHandler struct {
	encoder *json.Encoder
	first   bool
	output  io.Writer
}

// NewJSONHandler creates a new JSON handler
func NewJSONHandler(w io.Writer) *JSONHandler {
	return &JSONHandler{
		encoder: json.NewEncoder(w),
		first:   true,
		output:  w,
	}
}

// HandleResult emits one terminal entry as an element of a JSON array
func (j *JSONHandler) HandleResult(entry engine.Snapshot) error {
	if j.first {
		fmt.Fprintf(j.output, "[")
		j.first = false
	} else {
		fmt.Fprintf(j.output, ",")
	}

	return j.encoder.Encode(entry)
}

// HandleProgress is a no-op for JSON output; only terminal results are
// emitted
func (j *JSONHandler) HandleProgress(entry engine.Snapshot) error {
	return nil
}

// Close closes the JSON array
func (j *JSONHandler) Close() error {
	if !j.first {
		fmt.Fprintf(j.output, "]\n")
	}
	return nil
}

// TextHandler implements Handler for human-readable text output
type TextHandler struct {
	output     io.Writer
	inProgress bool
}

// NewTextHandler creates a new text handler
func NewTextHandler(w io.Writer) *TextHandler {
	return &TextHandler{
		output: w,
	}
}

// HandleResult prints one terminal entry in text format
func (t *TextHandler) HandleResult(entry engine.Snapshot) error {
	if t.inProgress {
		fmt.Fprintf(t.output, "\n")
		t.inProgress = false
	}

	if entry.State == engine.StateError {
		fmt.Fprintf(t.output, "ERROR %s: %s\n", entry.DisplayName, entry.ErrorMessage)
		return nil
	}

	fmt.Fprintf(t.output, "SUCCESS %s -> %s\n", entry.DisplayName, entry.ResultURL)
	return nil
}

// HandleProgress renders a simple progress bar for an uploading entry
func (t *TextHandler) HandleProgress(entry engine.Snapshot) error {
	barWidth := 40

	percentage := entry.Progress
	if percentage < 0 {
		percentage = 0
	} else if percentage > 100 {
		percentage = 100
	}

	filled := percentage * barWidth / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	fmt.Fprintf(t.output, "\r[%s] %s %d%%", bar, entry.DisplayName, percentage)
	t.inProgress = true
	return nil
}

// Close closes the text handler
func (t *TextHandler) Close() error {
	if t.inProgress {
		fmt.Fprintf(t.output, "\n")
		t.inProgress = false
	}
	return nil
}
