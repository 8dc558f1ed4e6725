package ruleset_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hookify/pkg/rule"
	"github.com/macropower/hookify/pkg/ruleset"
)

func writeRule(t *testing.T, dir, id, name, event string, enabled bool) string {
	t.Helper()

	content := fmt.Sprintf("---\nname: %s\nenabled: %t\nevent: %s\npattern: %s-pattern\n---\n\n%s from %s\n",
		name, enabled, event, name, name, filepath.Base(dir))
	path := filepath.Join(dir, "hookify."+id+".local.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func names(rules []*rule.Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Name)
	}

	return out
}

func newTiers(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	user := filepath.Join(root, "user")
	project := filepath.Join(root, "project")
	require.NoError(t, os.Mkdir(user, 0o700))
	require.NoError(t, os.Mkdir(project, 0o700))

	return user, project
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)
	writeRule(t, user, "foo", "foo", "bash", true)
	writeRule(t, user, "user-only", "user-only", "file", true)
	writeRule(t, user, "off", "off", "all", false)
	writeRule(t, project, "foo", "foo", "bash", false)
	writeRule(t, project, "bar", "bar", "bash", true)
	writeRule(t, project, "any", "any", "all", true)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))

	tcs := map[string]struct {
		event string
		want  []string
	}{
		"no filter": {
			event: "",
			want:  []string{"any", "bar", "foo", "user-only"},
		},
		"bash": {
			event: "bash",
			want:  []string{"any", "bar", "foo"},
		},
		"file": {
			event: "file",
			want:  []string{"any", "user-only"},
		},
		"unknown event": {
			event: "stop",
			want:  []string{"any"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, names(l.Load(tc.event)))
		})
	}
}

func TestLoader_LoadProjectOverridesUser(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)
	writeRule(t, user, "foo", "foo", "bash", true)
	projectPath := writeRule(t, project, "renamed-file", "foo", "all", true)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))

	got := l.Load("bash")
	require.Len(t, got, 1)
	assert.Equal(t, rule.SourceProject, got[0].Source)
	assert.Equal(t, projectPath, got[0].SourcePath)
	assert.Equal(t, "all", got[0].Event)
	assert.Equal(t, "foo from project", got[0].Message)
}

func TestLoader_LoadDisabledProjectRuleDoesNotShadow(t *testing.T) {
	t.Parallel()

	// Disabled rules are dropped before merging, so the user rule stays.
	user, project := newTiers(t)
	writeRule(t, user, "foo", "foo", "bash", true)
	writeRule(t, project, "foo", "foo", "bash", false)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))

	got := l.Load("")
	require.Len(t, got, 1)
	assert.Equal(t, rule.SourceUser, got[0].Source)
}

func TestLoader_ListAll(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)
	writeRule(t, user, "foo", "foo", "bash", true)
	writeRule(t, user, "off", "off", "file", false)
	writeRule(t, project, "foo", "foo", "bash", false)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))

	tiers := l.ListAll()
	assert.Equal(t, []string{"foo", "off"}, names(tiers.User))
	assert.Equal(t, []string{"foo"}, names(tiers.Project))
	assert.False(t, tiers.Project[0].Enabled)
	assert.Equal(t, []string{"foo", "off", "foo"}, names(tiers.All()))

	for _, r := range tiers.User {
		assert.Equal(t, rule.SourceUser, r.Source)
	}
}

func TestLoader_Dirs(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))
	assert.Equal(t, user, l.UserDir())
	assert.Equal(t, project, l.ProjectDir())
}

func TestLoader_MissingDirectories(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	l := ruleset.NewLoader(
		ruleset.WithUserDir(""),
		ruleset.WithProjectDir(filepath.Join(t.TempDir(), "missing")),
		ruleset.WithLogger(logger),
	)

	assert.Empty(t, l.Load(""))

	tiers := l.ListAll()
	assert.Empty(t, tiers.User)
	assert.Empty(t, tiers.Project)
	assert.Empty(t, buf.String())
}

func TestLoader_DiagnosticsGoToLogger(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)
	writeRule(t, user, "good", "good", "bash", true)
	bad := filepath.Join(project, "hookify.bad.local.md")
	require.NoError(t, os.WriteFile(bad, []byte("no header\n"), 0o600))

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	l := ruleset.NewLoader(
		ruleset.WithUserDir(user),
		ruleset.WithProjectDir(project),
		ruleset.WithLogger(logger),
	)

	assert.Equal(t, []string{"good"}, names(l.Load("bash")))
	assert.Contains(t, buf.String(), bad)
	assert.Contains(t, buf.String(), "source=project")
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := ruleset.Set{}
	s.Add(
		&rule.Rule{Name: "b", Source: rule.SourceUser},
		&rule.Rule{Name: "a", Source: rule.SourceUser},
	)
	s.Add(&rule.Rule{Name: "b", Source: rule.SourceProject})

	got := s.Rules()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, rule.SourceProject, got[1].Source)
}

func TestLoader_Watch(t *testing.T) {
	t.Parallel()

	user, project := newTiers(t)
	writeRule(t, user, "first", "first", "bash", true)

	l := ruleset.NewLoader(ruleset.WithUserDir(user), ruleset.WithProjectDir(project))

	var (
		mu    sync.Mutex
		calls [][]string
	)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- l.Watch(ctx, "bash", func(rules []*rule.Rule) {
			mu.Lock()
			defer mu.Unlock()

			calls = append(calls, names(rules))
		})
	}()

	last := func() []string {
		mu.Lock()
		defer mu.Unlock()

		if len(calls) == 0 {
			return nil
		}

		return calls[len(calls)-1]
	}

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"first"}, last())
	}, 5*time.Second, 10*time.Millisecond)

	writeRule(t, project, "second", "second", "bash", true)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"first", "second"}, last())
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestLoader_WatchWithoutDirectories(t *testing.T) {
	t.Parallel()

	l := ruleset.NewLoader(ruleset.WithUserDir(""), ruleset.WithProjectDir(""))

	err := l.Watch(t.Context(), "", func([]*rule.Rule) {})
	require.ErrorIs(t, err, ruleset.ErrNoDirectories)
}
