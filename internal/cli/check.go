package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/hookify/pkg/rule"
)

type CheckArgs struct {
	*RootArgs

	Output string
	Source string
}

func NewCheckCmd(ra *RootArgs) *cobra.Command {
	ca := &CheckArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Load rule files and report the ones that cannot be used",
		Long: `Load each rule file and print the resulting rules.

Files that cannot be loaded are reported on stderr, and the command fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, ca, args)
		},
	}

	addOutputFlag(cmd, &ca.Output)
	cmd.Flags().StringVar(&ca.Source, "source", string(rule.SourceProject),
		fmt.Sprintf("Tier to attribute the rules to, one of: [%s %s]", rule.SourceUser, rule.SourceProject))

	must(cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(
		[]string{string(rule.SourceUser), string(rule.SourceProject)},
		cobra.ShellCompDirectiveNoFileComp,
	)))

	return cmd
}

func runCheck(cmd *cobra.Command, ca *CheckArgs, paths []string) error {
	format, err := GetOutputFormat(ca.Output)
	if err != nil {
		return err
	}

	source := rule.Source(ca.Source)
	if source != rule.SourceUser && source != rule.SourceProject {
		return fmt.Errorf("invalid argument %q for --source", ca.Source)
	}

	logger := ca.Logger()
	rules := make([]*rule.Rule, 0, len(paths))
	invalid := 0

	for _, path := range paths {
		r, err := rule.LoadFile(path, source)
		if err != nil {
			invalid++
			logger.Error("invalid rule file", slog.String("path", path), slog.Any("err", err))

			continue
		}

		rules = append(rules, r)
	}

	err = writeRules(cmd.OutOrStdout(), format, rules)
	if err != nil {
		return err
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidRuleFiles, invalid, len(paths))
	}

	return nil
}
