package main

import (
	"fmt"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/jtejido/notecheck"
)

// NewTemplatesCmd creates the templates command.
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the loaded reference templates",
		Args:  cobra.NoArgs,
		RunE:  runTemplatesCmd,
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, markdown)")
	return cmd
}

func runTemplatesCmd(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	templates, err := loadTemplates(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text":
		templates.Each(func(t *notecheck.Template) bool {
			fmt.Fprintf(out, "%-12s %4dx%-4d %s\n", t.Label, t.Width(), t.Height(), t.Path)
			return true
		})
		return nil
	case "markdown", "md":
		rows := make([][]string, 0, templates.Len())
		templates.Each(func(t *notecheck.Template) bool {
			rows = append(rows, []string{t.Label, strconv.Itoa(t.Width()), strconv.Itoa(t.Height()), "`" + t.Path + "`"})
			return true
		})
		return markdown.NewMarkdown(out).
			H1("Templates").
			Table(markdown.TableSet{
				Header: []string{"Label", "Width", "Height", "File"},
				Rows:   rows,
			}).
			Build()
	}
	return fmt.Errorf("unsupported format %q", format)
}
