// Package ruleset merges rules from the user and project tiers.
//
// User rules are loaded first, then project rules replace any user rule with
// the same name. Nothing is cached: every call reads the rule directories
// again.
package ruleset
