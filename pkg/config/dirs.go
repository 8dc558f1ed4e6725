package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// RulesDirName is the name of the directory holding rule documents, in both
// the home and the project directory.
const RulesDirName = ".claude"

// UserRulesDir returns the user rules directory, or an empty string if it
// does not exist.
func UserRulesDir() string {
	if xdg.Home == "" {
		slog.Debug("could not determine home directory")
		return ""
	}

	return existingDir(filepath.Join(xdg.Home, RulesDirName))
}

// ProjectRulesDir returns the project rules directory under wd, or an empty
// string if it does not exist.
func ProjectRulesDir(wd string) string {
	return existingDir(filepath.Join(wd, RulesDirName))
}

// ExpandHome replaces a leading "~" in path with the home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(xdg.Home, rest)
	}

	return path
}

func existingDir(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("rule directory not found", slog.String("path", path), slog.Any("err", err))
		return ""
	}

	if !info.IsDir() {
		slog.Debug("rule path is not a directory", slog.String("path", path))
		return ""
	}

	return path
}
