package assess

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON indicates the model output contained no parseable JSON
// object. Callers recover with ParseFallback rather than surfacing it.
var ErrNoJSON = errors.New("assess: no JSON object in model response")

// RawAssessment is the model's answer before validation. Fields stay
// raw so the validator can apply per-field defaulting instead of
// trusting the shape the model chose.
type RawAssessment struct {
	Score       json.RawMessage `json:"score"`
	Band        json.RawMessage `json:"band"`
	Explanation json.RawMessage `json:"explanation"`
}

// Parse extracts a JSON object from raw model output. It first tries a
// strict parse of the trimmed text, then retries on the substring from
// the first '{' to the last '}' to recover objects wrapped in prose or
// code fences.
func Parse(raw string) (*RawAssessment, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty output", ErrNoJSON)
	}

	if trimmed[0] == '{' {
		var ra RawAssessment
		if err := json.Unmarshal([]byte(trimmed), &ra); err == nil {
			return &ra, nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end < start {
		return nil, ErrNoJSON
	}

	var ra RawAssessment
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &ra); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return &ra, nil
}
