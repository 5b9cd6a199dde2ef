package notecheck

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/gift"
	"github.com/rs/zerolog"
)

// Score is the correlation of the input against one template. Value is NaN when the
// correlation is undefined.
type Score struct {
	Label string
	Value float64
}

// Defined reports whether the score took part in best-match selection.
func (s Score) Defined() bool { return !math.IsNaN(s.Value) }

// MatchResult is the best template for an input.
type MatchResult struct {
	Label    string
	Score    float64
	Template *Template
	// Scores holds every template's score in iteration order.
	Scores []Score
	// HashDistance is the perceptual hash distance between the resized input and the
	// matched template, or -1 when it could not be computed.
	HashDistance int
	// Degenerate is set when no template produced a defined correlation. The result
	// then names the first template with a score of -1.
	Degenerate bool
}

func (r *MatchResult) MarshalZerologObject(e *zerolog.Event) {
	e.Str("label", r.Label).
		Float64("score", r.Score).
		Int("hash_distance", r.HashDistance).
		Bool("degenerate", r.Degenerate)
}

// Matcher compares an input image against templates by resize and Pearson correlation.
type Matcher struct {
	resampling gift.Resampling
}

type MatcherOption func(*Matcher)

// WithInterpolation selects the resampling filter used to resize the input.
func WithInterpolation(r gift.Resampling) MatcherOption {
	return func(m *Matcher) { m.resampling = r }
}

func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{resampling: gift.LinearResampling}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ParseInterpolation maps a filter name to a gift resampling filter.
func ParseInterpolation(name string) (gift.Resampling, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear", "bilinear":
		return gift.LinearResampling, nil
	case "nearest":
		return gift.NearestNeighborResampling, nil
	case "box", "area":
		return gift.BoxResampling, nil
	case "cubic", "bicubic":
		return gift.CubicResampling, nil
	case "lanczos":
		return gift.LanczosResampling, nil
	}
	return nil, fmt.Errorf("unknown interpolation %q", name)
}

var defaultMatcher = NewMatcher()

// FindBestMatch runs the default bilinear Matcher.
func FindBestMatch(input *Image, templates *TemplateSet) (*MatchResult, error) {
	return defaultMatcher.FindBestMatch(input, templates)
}

// Resize scales img to w x h. Images already at that size are returned unchanged.
func (m *Matcher) Resize(img *Image, w, h int) *Image {
	if img.Width() == w && img.Height() == h {
		return img
	}
	g := gift.New(gift.Resize(w, h, m.resampling))
	dst := image.NewGray(g.Bounds(img.Gray().Bounds()))
	g.Draw(dst, img.Gray())
	return &Image{gray: dst}
}

// FindBestMatch resizes input to every template in turn and returns the template with the
// strictly greatest correlation. Ties keep the template seen first; undefined correlations
// never win.
func (m *Matcher) FindBestMatch(input *Image, templates *TemplateSet) (*MatchResult, error) {
	if input.Empty() {
		return nil, errNoInput
	}
	if templates.Empty() {
		return nil, errNoTemplates
	}

	res := &MatchResult{Scores: make([]Score, 0, templates.Len()), HashDistance: -1}
	var bestInput *Image
	templates.Each(func(t *Template) bool {
		resized := m.Resize(input, t.Width(), t.Height())
		score := Pearson(t.Image.Pixels(), resized.Pixels())
		res.Scores = append(res.Scores, Score{Label: t.Label, Value: score})
		if math.IsNaN(score) {
			return true
		}
		if res.Template == nil || score > res.Score {
			res.Label, res.Score, res.Template = t.Label, score, t
			bestInput = resized
		}
		return true
	})

	if res.Template == nil {
		first := templates.Templates()[0]
		res.Label, res.Score, res.Template = first.Label, -1, first
		res.Degenerate = true
		bestInput = m.Resize(input, first.Width(), first.Height())
	}

	if d, err := HashDistance(bestInput, res.Template.Image); err == nil {
		res.HashDistance = d
	}
	return res, nil
}
