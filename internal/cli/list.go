package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hookify/pkg/expr"
	"github.com/macropower/hookify/pkg/ruleset"
)

type ListArgs struct {
	*RootArgs

	Output string
	Match  string
}

func NewListCmd(ra *RootArgs) *cobra.Command {
	la := &ListArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every rule of both tiers, including disabled rules",
		Long: `Print every rule of both tiers, without merging.

Disabled rules are included. Use --match to select rules with a CEL
expression over the variables name, event, action, enabled, source, path,
message, tool_matcher and conditions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, la)
		},
	}

	addOutputFlag(cmd, &la.Output)
	cmd.Flags().StringVarP(&la.Match, "match", "m", "", "CEL expression that selects rules")

	return cmd
}

func runList(cmd *cobra.Command, la *ListArgs) error {
	format, err := GetOutputFormat(la.Output)
	if err != nil {
		return err
	}

	tiers := la.NewLoader().ListAll()

	if la.Match != "" {
		sel, err := expr.NewSelector(la.Match)
		if err != nil {
			return fmt.Errorf("--match: %w", err)
		}

		user, err := sel.Filter(tiers.User)
		if err != nil {
			return fmt.Errorf("--match: %w", err)
		}

		project, err := sel.Filter(tiers.Project)
		if err != nil {
			return fmt.Errorf("--match: %w", err)
		}

		tiers = &ruleset.Tiers{User: user, Project: project}
	}

	return writeTiers(cmd.OutOrStdout(), format, tiers)
}
