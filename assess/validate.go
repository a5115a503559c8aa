package assess

import (
	"encoding/json"
	"strings"
)

// ExplanationWords is the exact explanation length the model is asked
// for and the validator enforces.
const ExplanationWords = 40

const defaultScore = 50

const defaultExplanation = "Coverage assessment unavailable due to insufficient information in provided documentation."

// paddingWords extends short explanations toward ExplanationWords.
// Appended in order, one at a time, until the target length or the
// vocabulary is exhausted.
var paddingWords = []string{
	"based", "on", "policy", "terms", "and",
	"conditions", "provided", "in", "documentation",
}

// Result is a validated coverage assessment. Score is always in
// [0,100], Band matches the scoring table for that score except on
// fallback paths, and Explanation is at most ExplanationWords words.
type Result struct {
	Score       int    `json:"score"`
	Band        Band   `json:"band"`
	Explanation string `json:"explanation"`
}

// Validate applies the defaulting and normalization rules to a parsed
// model response. Whatever the input shape, the returned Result
// satisfies its invariants. The model's own band claim is ignored; the
// band is always derived from the validated score.
func Validate(raw *RawAssessment) Result {
	score := scoreOf(raw.Score)
	return Result{
		Score:       score,
		Band:        BandFor(score),
		Explanation: normalizeExplanation(explanationOf(raw.Explanation)),
	}
}

// scoreOf reads a score field. Missing, null, non-integer, or
// out-of-range values all default to defaultScore.
func scoreOf(raw json.RawMessage) int {
	if raw == nil {
		return defaultScore
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return defaultScore
	}
	n, err := num.Int64()
	if err != nil || n < 0 || n > 100 {
		return defaultScore
	}
	return int(n)
}

// explanationOf reads an explanation field, defaulting when it is
// missing or not a string. A present-but-empty string is kept empty so
// padding starts from zero words.
func explanationOf(raw json.RawMessage) string {
	if raw == nil {
		return defaultExplanation
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return defaultExplanation
	}
	return s
}

// normalizeExplanation forces an explanation to ExplanationWords words:
// longer text is truncated, shorter text is padded from paddingWords.
// Text already at the target length passes through with its original
// spacing. The result can only fall short of the target when the input
// plus the whole padding vocabulary still totals fewer words.
func normalizeExplanation(explanation string) string {
	words := strings.Fields(explanation)
	if len(words) == ExplanationWords {
		return explanation
	}
	if len(words) > ExplanationWords {
		return strings.Join(words[:ExplanationWords], " ")
	}
	for _, pad := range paddingWords {
		if len(words) == ExplanationWords {
			break
		}
		words = append(words, pad)
	}
	return strings.Join(words, " ")
}

// ParseFallback is the fixed result served when model output contains
// no usable JSON. The canned text bypasses word normalization, and the
// band is pinned at SomewhatLikely rather than derived from the score.
func ParseFallback() Result {
	return Result{
		Score:       defaultScore,
		Band:        SomewhatLikely,
		Explanation: "Unable to parse model response. Coverage assessment requires manual review of policy documentation for accurate determination of applicable terms and conditions.",
	}
}

// InvocationFallback is the fixed result served when the completion
// call itself fails. Same pinned score and band as ParseFallback with
// its own canned text.
func InvocationFallback() Result {
	return Result{
		Score:       defaultScore,
		Band:        SomewhatLikely,
		Explanation: "Technical error occurred during analysis. Coverage determination requires manual review of policy terms conditions exclusions and applicable circumstances for accurate assessment.",
	}
}
