package notecheck

import (
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultThreshold is the correlation a match must exceed to be considered genuine.
const DefaultThreshold = 0.9

// DefaultCurrency prefixes the label in verdict messages.
const DefaultCurrency = "PKR"

// Verdict is the classification of a match.
type Verdict struct {
	Label           string
	Score           float64
	Threshold       float64
	IsLikelyGenuine bool
	HashDistance    int
}

// Classify marks the match genuine when its score is strictly greater than threshold.
func Classify(result *MatchResult, threshold float64) Verdict {
	if result == nil {
		return Verdict{Threshold: threshold, Score: -1, HashDistance: -1}
	}
	return Verdict{
		Label:           result.Label,
		Score:           result.Score,
		Threshold:       threshold,
		IsLikelyGenuine: result.Score > threshold,
		HashDistance:    result.HashDistance,
	}
}

// Status is "Likely Real" or "Likely Fake".
func (v Verdict) Status() string {
	if v.IsLikelyGenuine {
		return "Likely Real"
	}
	return "Likely Fake"
}

// Message renders the verdict for display, e.g. "Detected PKR 10 - Likely Real (Score: 0.95)".
func (v Verdict) Message(currency string) string {
	if currency == "" {
		return fmt.Sprintf("Detected %s - %s (Score: %.2f)", v.Label, v.Status(), v.Score)
	}
	return fmt.Sprintf("Detected %s %s - %s (Score: %.2f)", currency, v.Label, v.Status(), v.Score)
}

func (v Verdict) MarshalZerologObject(e *zerolog.Event) {
	e.Str("label", v.Label).
		Float64("score", v.Score).
		Float64("threshold", v.Threshold).
		Bool("genuine", v.IsLikelyGenuine)
}
