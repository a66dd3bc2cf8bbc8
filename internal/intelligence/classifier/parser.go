package classifier

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

const (
	defaultConfidence = 0.5
	defaultReasoning  = "no reason provided"
)

// rawVerdict mirrors the JSON payload the model is asked to return.  Loose
// types tolerate models that quote numbers or add keys.
type rawVerdict struct {
	Classification string          `json:"classification"`
	Confidence     json.RawMessage `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
	PainType       string          `json:"pain_type"`
}

// ParseVerdict extracts the first JSON object from a model response and
// builds a Verdict from it.  Extra keys are ignored; missing confidence,
// reasoning, and pain_type get documented defaults.  A missing object or an
// unrecognized classification label is a parse failure; the caller decides
// whether to apply the fallback heuristic.
func ParseVerdict(response string) (*post.Verdict, error) {
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return nil, errors.New(errors.ErrCodeVerdictMalformed,
			"model response contains no JSON object")
	}

	var raw rawVerdict
	dec := json.NewDecoder(strings.NewReader(response[start:]))
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeVerdictMalformed,
			"decoding model response")
	}

	classification, ok := post.ParseClassification(raw.Classification)
	if !ok {
		return nil, errors.New(errors.ErrCodeVerdictLabelUnknown,
			"unrecognized classification label").WithDetail(raw.Classification)
	}

	reasoning := strings.TrimSpace(raw.Reasoning)
	if reasoning == "" {
		reasoning = defaultReasoning
	}

	return &post.Verdict{
		IsOpportunity:  classification.IsOpportunity(),
		Classification: classification,
		Confidence:     coerceConfidence(raw.Confidence),
		Reasoning:      reasoning,
		PainType:       post.ParsePainType(raw.PainType),
	}, nil
}

// coerceConfidence accepts a JSON number or a numeric string clamped to
// [0, 1]; anything else falls back to the default.
func coerceConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return defaultConfidence
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return clampConfidence(num)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return clampConfidence(num)
		}
	}
	return defaultConfidence
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
