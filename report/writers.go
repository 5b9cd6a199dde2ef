package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/nao1215/markdown"
)

// TextWriter prints one verdict line per image followed by the per-template scores.
type TextWriter struct {
	w io.Writer
}

func (t *TextWriter) Write(reports []*Report) error {
	for _, r := range reports {
		if _, err := fmt.Fprintf(t.w, "%s: %s\n", r.Image, r.Message); err != nil {
			return err
		}
		for _, s := range r.Scores {
			if _, err := fmt.Fprintf(t.w, "  %-12s %s\n", s.Label, scoreText(s.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// JSONWriter writes the reports as an indented JSON array.
type JSONWriter struct {
	w io.Writer
}

func (j *JSONWriter) Write(reports []*Report) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// CBORWriter writes the reports as a single CBOR array.
type CBORWriter struct {
	w io.Writer
}

func (c *CBORWriter) Write(reports []*Report) error {
	return cbor.NewEncoder(c.w).Encode(reports)
}

// MarkdownWriter renders a summary table and one score table per image.
type MarkdownWriter struct {
	w io.Writer
}

func (m *MarkdownWriter) Write(reports []*Report) error {
	md := markdown.NewMarkdown(m.w)
	md.H1("Banknote Check")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			"`" + r.Image + "`",
			r.Label,
			strconv.FormatFloat(r.Score, 'f', 4, 64),
			r.Verdict,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Image", "Denomination", "Score", "Verdict"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range reports {
		md.H2(r.Image)
		if r.Genuine {
			md.Tip(r.Message)
		} else {
			md.Caution(r.Message)
		}
		md.PlainText("")
		scoreRows := make([][]string, 0, len(r.Scores))
		for _, s := range r.Scores {
			scoreRows = append(scoreRows, []string{s.Label, scoreText(s.Value)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Template", "Correlation"},
			Rows:   scoreRows,
		})
		md.PlainText("")
	}
	return md.Build()
}
