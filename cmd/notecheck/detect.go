package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jtejido/notecheck"
	"github.com/jtejido/notecheck/config"
	"github.com/jtejido/notecheck/report"
)

// errFakeDetected is returned by detect --fail-on-fake when any note is likely fake.
var errFakeDetected = errors.New("one or more notes are likely fake")

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect IMAGE...",
		Short: "Classify banknote images as likely real or likely fake",
		Long: `Detect matches every IMAGE against the templates and prints the denomination,
the correlation score and the verdict.

Examples:
  # Check a single note
  notecheck detect note.jpg

  # Check several notes and emit JSON
  notecheck detect --format json a.jpg b.png

  # Exit non-zero when any note looks fake
  notecheck detect --fail-on-fake scans/*.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDetectCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format (text, json, markdown, cbor)")
	cmd.Flags().Bool("fail-on-fake", false,
		"Exit with an error if any note is likely fake")

	return cmd
}

func runDetectCmd(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	failOnFake, err := cmd.Flags().GetBool("fail-on-fake")
	if err != nil {
		return err
	}
	w, err := report.NewWriter(report.Format(format), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	templates, err := loadTemplates(cmd.Context())
	if err != nil {
		return err
	}
	matcher, err := newMatcher()
	if err != nil {
		return err
	}
	sess, err := notecheck.NewSession(templates,
		notecheck.WithThreshold(config.Config.Threshold),
		notecheck.WithMatcher(matcher),
	)
	if err != nil {
		return err
	}

	reports := make([]*report.Report, 0, len(args))
	failed, fakes := 0, 0
	for _, path := range args {
		if err := sess.UploadImage(path); err != nil {
			log.Error().Err(err).Str("image", path).Msg("skipping image")
			failed++
			continue
		}
		res, err := sess.Match()
		if err != nil {
			return err
		}
		v := notecheck.Classify(res, sess.Threshold())
		log.Debug().Str("image", path).Object("match", res).Object("verdict", v).Msg("detected")
		if !v.IsLikelyGenuine {
			fakes++
		}
		reports = append(reports, report.New(path, res, v, config.Config.Currency))
	}

	if err := w.Write(reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("failed to load %d of %d images", failed, len(args))
	}
	if failOnFake && fakes > 0 {
		return errFakeDetected
	}
	return nil
}
