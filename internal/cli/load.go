package cli

import (
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/macropower/hookify/pkg/rule"
)

var allEvents = []string{
	rule.EventAll,
	rule.EventBash,
	rule.EventFile,
	rule.EventStop,
	rule.EventPrompt,
}

type LoadArgs struct {
	*RootArgs

	Output string
	Watch  bool
}

func NewLoadCmd(ra *RootArgs) *cobra.Command {
	la := &LoadArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "load [event]",
		Short: "Print the enabled rules for an event, with project rules overriding user rules",
		Long: `Print the enabled rules for an event.

Rules from the project directory replace user rules with the same name.
Without an event, all enabled rules are printed.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: slices.Clone(allEvents),
		RunE: func(cmd *cobra.Command, args []string) error {
			var event string
			if len(args) > 0 {
				event = args[0]
			}

			return runLoad(cmd, la, event)
		},
	}

	addOutputFlag(cmd, &la.Output)
	cmd.Flags().BoolVarP(&la.Watch, "watch", "w", false, "Print the rules again whenever a rule file changes")

	return cmd
}

func runLoad(cmd *cobra.Command, la *LoadArgs, event string) error {
	format, err := GetOutputFormat(la.Output)
	if err != nil {
		return err
	}

	loader := la.NewLoader()
	w := cmd.OutOrStdout()

	if !la.Watch {
		return writeRules(w, format, loader.Load(event))
	}

	return loader.Watch(cmd.Context(), event, func(rules []*rule.Rule) {
		err := writeRules(w, format, rules)
		if err != nil {
			la.Logger().Error("write rules", slog.Any("err", err))
		}
	})
}
