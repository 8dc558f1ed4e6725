package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/hookify/pkg/rule"
	"github.com/macropower/hookify/pkg/ruleset"
)

type OutputFormat string

const (
	OutputAuto  OutputFormat = "auto"
	OutputTable OutputFormat = "table"
	OutputYAML  OutputFormat = "yaml"
	OutputJSON  OutputFormat = "json"
)

var (
	AllOutputFormats = []string{
		string(OutputAuto),
		string(OutputTable),
		string(OutputYAML),
		string(OutputJSON),
	}

	ErrUnknownOutputFormat = errors.New("unknown output format")
)

// GetOutputFormat converts a string to an [OutputFormat].
func GetOutputFormat(format string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(format))
	if !slices.Contains(AllOutputFormats, string(f)) {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}

	return f, nil
}

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", string(OutputAuto),
		fmt.Sprintf("Output format, one of: %s", AllOutputFormats))

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputFormats, cobra.ShellCompDirectiveNoFileComp),
	))
}

// resolve picks a table for terminals and YAML for everything else.
func (f OutputFormat) resolve(w io.Writer) OutputFormat {
	if f != OutputAuto {
		return f
	}

	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return OutputTable
	}

	return OutputYAML
}

func writeRules(w io.Writer, format OutputFormat, rules []*rule.Rule) error {
	if rules == nil {
		rules = []*rule.Rule{}
	}

	if format.resolve(w) == OutputTable {
		return writeTable(w, rules)
	}

	return encode(w, format.resolve(w), rules)
}

func writeTiers(w io.Writer, format OutputFormat, tiers *ruleset.Tiers) error {
	if format.resolve(w) == OutputTable {
		return writeTable(w, tiers.All())
	}

	out := &ruleset.Tiers{User: tiers.User, Project: tiers.Project}
	if out.User == nil {
		out.User = []*rule.Rule{}
	}
	if out.Project == nil {
		out.Project = []*rule.Rule{}
	}

	return encode(w, format.resolve(w), out)
}

func encode(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case OutputYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		_, err = w.Write(b)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var tableCellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeTable(w io.Writer, rules []*rule.Rule) error {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		conditions := make([]string, 0, len(r.Conditions))
		for _, c := range r.Conditions {
			conditions = append(conditions, c.String())
		}

		if len(conditions) == 0 {
			conditions = append(conditions, "-")
		}

		rows = append(rows, []string{
			r.Name,
			string(r.Source),
			r.Event,
			r.Action,
			strconv.FormatBool(r.Enabled),
			strings.Join(conditions, "\n"),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "SOURCE", "EVENT", "ACTION", "ENABLED", "CONDITIONS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}

			return tableCellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
