package notecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		score     float64
		threshold float64
		genuine   bool
	}{
		{name: "equal to threshold is fake", score: 0.9, threshold: 0.9, genuine: false},
		{name: "just above threshold", score: 0.9000001, threshold: 0.9, genuine: true},
		{name: "below threshold", score: 0.5, threshold: 0.9, genuine: false},
		{name: "perfect", score: 1, threshold: 0.9, genuine: true},
		{name: "negative", score: -1, threshold: 0.9, genuine: false},
		{name: "custom threshold", score: 0.75, threshold: 0.7, genuine: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := Classify(&MatchResult{Label: "10", Score: tt.score}, tt.threshold)
			assert.Equal(t, tt.genuine, v.IsLikelyGenuine)
			assert.Equal(t, tt.score, v.Score)
			assert.Equal(t, tt.threshold, v.Threshold)
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	t.Parallel()

	prev := false
	for score := -1.0; score <= 1.0; score += 0.01 {
		v := Classify(&MatchResult{Label: "x", Score: score}, DefaultThreshold)
		if prev {
			assert.True(t, v.IsLikelyGenuine, "verdict went back to fake at %v", score)
		}
		prev = v.IsLikelyGenuine
	}
	assert.True(t, prev)
}

func TestClassifyScenarios(t *testing.T) {
	t.Parallel()

	res := &MatchResult{
		Label:  "10",
		Score:  0.95,
		Scores: []Score{{Label: "10", Value: 0.95}, {Label: "20", Value: 0.3}},
	}
	v := Classify(res, DefaultThreshold)
	assert.Equal(t, "10", v.Label)
	assert.Equal(t, 0.95, v.Score)
	assert.True(t, v.IsLikelyGenuine)
	assert.Equal(t, "Detected PKR 10 - Likely Real (Score: 0.95)", v.Message(DefaultCurrency))

	v = Classify(&MatchResult{Label: "10", Score: 0.5}, DefaultThreshold)
	assert.Equal(t, "10", v.Label)
	assert.Equal(t, 0.5, v.Score)
	assert.False(t, v.IsLikelyGenuine)
	assert.Equal(t, "Detected PKR 10 - Likely Fake (Score: 0.50)", v.Message(DefaultCurrency))
	assert.Equal(t, "Detected 10 - Likely Fake (Score: 0.50)", v.Message(""))
}

func TestClassifyNil(t *testing.T) {
	t.Parallel()

	v := Classify(nil, DefaultThreshold)
	assert.False(t, v.IsLikelyGenuine)
	assert.Equal(t, "Likely Fake", v.Status())
}
