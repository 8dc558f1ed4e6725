// Package config locates the rule directories for each tier.
//
// User rules live in "~/.claude" and apply to every project. Project rules
// live in ".claude" under the working directory and take precedence over user
// rules with the same name.
package config
