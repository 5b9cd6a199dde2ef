// Package report renders detection results for the command line.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jtejido/notecheck"
)

// Report is the outcome of checking one image.
type Report struct {
	Image        string    `json:"image" cbor:"image"`
	Label        string    `json:"label" cbor:"label"`
	Score        float64   `json:"score" cbor:"score"`
	Threshold    float64   `json:"threshold" cbor:"threshold"`
	Genuine      bool      `json:"is_genuine" cbor:"is_genuine"`
	Verdict      string    `json:"verdict" cbor:"verdict"`
	Message      string    `json:"message" cbor:"message"`
	HashDistance int       `json:"hash_distance" cbor:"hash_distance"`
	Degenerate   bool      `json:"degenerate,omitempty" cbor:"degenerate,omitempty"`
	Scores       []Score   `json:"scores" cbor:"scores"`
	CheckedAt    time.Time `json:"checked_at" cbor:"checked_at"`
}

// Score is a per-template correlation. Value is nil when the correlation is undefined.
type Score struct {
	Label string   `json:"label" cbor:"label"`
	Value *float64 `json:"value" cbor:"value"`
}

// New builds a report for image from a match and its verdict.
func New(image string, res *notecheck.MatchResult, v notecheck.Verdict, currency string) *Report {
	r := &Report{
		Image:        image,
		Label:        v.Label,
		Score:        v.Score,
		Threshold:    v.Threshold,
		Genuine:      v.IsLikelyGenuine,
		Verdict:      v.Status(),
		Message:      v.Message(currency),
		HashDistance: v.HashDistance,
		CheckedAt:    time.Now().UTC(),
	}
	if res != nil {
		r.Degenerate = res.Degenerate
		r.Scores = Scores(res.Scores)
	}
	return r
}

// Scores converts match scores, mapping NaN to nil.
func Scores(in []notecheck.Score) []Score {
	out := make([]Score, 0, len(in))
	for _, s := range in {
		entry := Score{Label: s.Label}
		if !math.IsNaN(s.Value) {
			v := s.Value
			entry.Value = &v
		}
		out = append(out, entry)
	}
	return out
}

// Writer renders reports.
type Writer interface {
	Write(reports []*Report) error
}

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCBOR     Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatCBOR}

// NewWriter returns the Writer for format.
func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return &TextWriter{w: w}, nil
	case FormatJSON:
		return &JSONWriter{w: w}, nil
	case FormatMarkdown, "md":
		return &MarkdownWriter{w: w}, nil
	case FormatCBOR:
		return &CBORWriter{w: w}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func scoreText(v *float64) string {
	if v == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", *v)
}
