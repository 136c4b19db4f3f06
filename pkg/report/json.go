package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes a summary as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON report formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the summary as indented JSON to the given writer.
func (f *JSONFormatter) Format(w io.Writer, summary *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
