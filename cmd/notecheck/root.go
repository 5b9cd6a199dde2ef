package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jtejido/notecheck"
	"github.com/jtejido/notecheck/config"
	"github.com/jtejido/notecheck/logging"
)

// logSink is the output of the global logger, set up before every command runs.
var logSink io.WriteCloser

// NewRootCmd creates the root command for notecheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notecheck",
		Short: "Check banknote images against reference templates",
		Long: `notecheck compares a banknote photo with a set of labeled reference images.

The input is converted to grayscale, resized to each template and scored by Pearson
correlation. The best scoring template names the denomination; a score above the
threshold marks the note as likely real.

Templates are read from a directory of <label>.<ext> files, "templates" by default.`,
		Version:            getVersion(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file (toml, yaml or ini)")
	cmd.PersistentFlags().StringP("templates", "t", "", "Template directory")
	cmd.PersistentFlags().Float64("threshold", notecheck.DefaultThreshold, "Score a match must exceed to be considered real")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewDetectCmd())
	cmd.AddCommand(NewTemplatesCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := config.LoadConfig(config.Find(path)); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("templates") {
		if config.Config.TemplateDir, err = flags.GetString("templates"); err != nil {
			return err
		}
	}
	if flags.Changed("threshold") {
		if config.Config.Threshold, err = flags.GetFloat64("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if config.Config.Log.Level, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if err := config.Config.Validate(); err != nil {
		return err
	}

	logSink, err = logging.Setup(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logSink == nil {
		return nil
	}
	err := logSink.Close()
	logSink = nil
	return err
}

// newMatcher builds the matcher selected by config.Config.Interpolation.
func newMatcher() (*notecheck.Matcher, error) {
	r, err := notecheck.ParseInterpolation(config.Config.Interpolation)
	if err != nil {
		return nil, err
	}
	return notecheck.NewMatcher(notecheck.WithInterpolation(r)), nil
}

// loadTemplates reads the configured template directory.
func loadTemplates(ctx context.Context) (*notecheck.TemplateSet, error) {
	return notecheck.LoadTemplates(ctx, config.Config.TemplateDir,
		notecheck.WithExtensions(config.Config.Extensions...),
		notecheck.WithWorkers(config.Config.Workers),
		notecheck.WithLogger(log.Logger),
	)
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
