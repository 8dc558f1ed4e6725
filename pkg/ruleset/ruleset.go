package ruleset

import (
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/macropower/hookify/pkg/config"
	"github.com/macropower/hookify/pkg/rule"
)

// Set holds rules by name. Adding a rule replaces any rule with the same name.
type Set map[string]*rule.Rule

// Add adds rules to the set, in order.
func (s Set) Add(rules ...*rule.Rule) {
	for _, r := range rules {
		s[r.Name] = r
	}
}

// Rules returns the rules in the set, sorted by name.
func (s Set) Rules() []*rule.Rule {
	rules := make([]*rule.Rule, 0, len(s))
	for _, r := range s {
		rules = append(rules, r)
	}

	slices.SortFunc(rules, func(a, b *rule.Rule) int {
		return strings.Compare(a.Name, b.Name)
	})

	return rules
}

// Tiers holds the rules of each tier, without merging.
type Tiers struct {
	User    []*rule.Rule `json:"user"`
	Project []*rule.Rule `json:"project"`
}

// All returns the user rules followed by the project rules.
func (t *Tiers) All() []*rule.Rule {
	return slices.Concat(t.User, t.Project)
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithUserDir sets the user rules directory. An empty dir disables the tier.
func WithUserDir(dir string) LoaderOpt {
	return func(l *Loader) {
		l.userDir = dir
	}
}

// WithProjectDir sets the project rules directory. An empty dir disables the
// tier.
func WithProjectDir(dir string) LoaderOpt {
	return func(l *Loader) {
		l.projectDir = dir
	}
}

// WithLogger sets the logger that receives diagnostics for unusable rule
// files. Defaults to [slog.Default] at load time.
func WithLogger(logger *slog.Logger) LoaderOpt {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader loads rules from the user and project tiers.
type Loader struct {
	logger     *slog.Logger
	userDir    string
	projectDir string
}

// NewLoader creates a new [Loader]. Without options, it uses
// [config.UserRulesDir] and [config.ProjectRulesDir] for the current working
// directory.
func NewLoader(opts ...LoaderOpt) *Loader {
	l := &Loader{
		userDir: config.UserRulesDir(),
	}

	wd, err := os.Getwd()
	if err != nil {
		slog.Debug("could not get working directory", slog.Any("err", err))
	} else {
		l.projectDir = config.ProjectRulesDir(wd)
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// UserDir returns the user rules directory.
func (l *Loader) UserDir() string {
	return l.userDir
}

// ProjectDir returns the project rules directory.
func (l *Loader) ProjectDir() string {
	return l.projectDir
}

// Load returns the enabled rules for event from both tiers. Project rules
// replace user rules with the same name. An empty event returns rules for
// every event.
func (l *Loader) Load(event string) []*rule.Rule {
	set := Set{}
	set.Add(rule.LoadDir(l.userDir, rule.SourceUser, l.loadOpts(rule.WithEvent(event))...)...)
	set.Add(rule.LoadDir(l.projectDir, rule.SourceProject, l.loadOpts(rule.WithEvent(event))...)...)

	return set.Rules()
}

// ListAll returns the rules of each tier without merging, including disabled
// rules.
func (l *Loader) ListAll() *Tiers {
	return &Tiers{
		User:    rule.LoadDir(l.userDir, rule.SourceUser, l.loadOpts(rule.WithDisabled())...),
		Project: rule.LoadDir(l.projectDir, rule.SourceProject, l.loadOpts(rule.WithDisabled())...),
	}
}

func (l *Loader) loadOpts(opts ...rule.LoadOpt) []rule.LoadOpt {
	if l.logger != nil {
		opts = append(opts, rule.WithLogger(l.logger))
	}

	return opts
}
