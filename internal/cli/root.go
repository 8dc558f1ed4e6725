package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/hookify/pkg/config"
	"github.com/macropower/hookify/pkg/log"
	"github.com/macropower/hookify/pkg/ruleset"
)

const (
	cmdName = "hookify"
	cmdDesc = `Load and inspect hookify rules from the user and project rule directories.`

	cmdExamples = `  # Show the rules that apply to bash commands:
  hookify load bash

  # Show every rule file in both tiers, including disabled rules:
  hookify list

  # Show project rules that test the command line, as JSON:
  hookify list --match 'source == "project" && conditions.exists(c, c.field == "command")' -o json

  # Check rule files before committing them:
  hookify check .claude/hookify.*.local.md`
)

type RootArgs struct {
	logger *slog.Logger

	LogLevel   string
	LogFormat  string
	UserDir    string
	ProjectDir string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.UserDir, "user-dir", "", "User rules directory, default is ~/.claude")
	cmd.PersistentFlags().
		StringVar(&ra.ProjectDir, "project-dir", "", "Project rules directory, default is ./.claude")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagDirname("user-dir"))
	must(cmd.MarkPersistentFlagDirname("project-dir"))
}

// NewLoader creates a [ruleset.Loader] for the configured directories.
// Directories that were not set fall back to the [ruleset.NewLoader] defaults.
func (ra *RootArgs) NewLoader() *ruleset.Loader {
	var opts []ruleset.LoaderOpt

	if ra.logger != nil {
		opts = append(opts, ruleset.WithLogger(ra.logger))
	}

	if ra.UserDir != "" {
		opts = append(opts, ruleset.WithUserDir(config.ExpandHome(ra.UserDir)))
	}

	if ra.ProjectDir != "" {
		opts = append(opts, ruleset.WithProjectDir(config.ExpandHome(ra.ProjectDir)))
	}

	l := ruleset.NewLoader(opts...)
	ra.Logger().Debug("rule directories",
		slog.String("user", l.UserDir()),
		slog.String("project", l.ProjectDir()),
	)

	return l
}

// Logger returns the logger used for diagnostics.
func (ra *RootArgs) Logger() *slog.Logger {
	if ra.logger == nil {
		return slog.Default()
	}

	return ra.logger
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	cmd.AddCommand(
		NewLoadCmd(args),
		NewListCmd(args),
		NewCheckCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		ra.logger = slog.New(logHandler)
		slog.SetDefault(ra.logger)

		return nil
	}
}
