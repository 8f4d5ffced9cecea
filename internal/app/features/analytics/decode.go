package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/stratapulse/internal/domain/models"
)

// ErrInvalidLogs is returned when the request body does not carry a logs
// array.
var ErrInvalidLogs = errors.New("invalid logs format")

var entryFields = [...]string{"timestamp", "user", "type", "detail"}

// batchEnvelope is the request body. Logs stays raw so a missing or
// non-array value can be told apart from an empty array.
type batchEnvelope struct {
	Logs json.RawMessage `json:"logs"`
}

// decodeLogs parses the logs array. Only the array itself is checked:
// elements that are not objects format as empty entries, string fields are
// used as sent and any other field value is written as its JSON text.
// Missing or null fields become empty strings and unknown fields are
// ignored.
func decodeLogs(raw json.RawMessage) ([]models.LogEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: logs must be an array", ErrInvalidLogs)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogs, err)
	}

	entries := make([]models.LogEntry, len(elems))
	for i, elem := range elems {
		entries[i] = decodeEntry(elem)
	}
	return entries, nil
}

func decodeEntry(elem json.RawMessage) models.LogEntry {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 || elem[0] != '{' {
		return models.LogEntry{}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(elem, &obj); err != nil {
		return models.LogEntry{}
	}

	var vals [len(entryFields)]string
	for i, name := range entryFields {
		vals[i] = fieldText(obj[name])
	}
	return models.LogEntry{Timestamp: vals[0], User: vals[1], Type: vals[2], Detail: vals[3]}
}

// fieldText renders one field value for the log line.
func fieldText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
