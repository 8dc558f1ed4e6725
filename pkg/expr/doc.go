// Package expr provides CEL (Common Expression Language) selectors for rules.
//
// A selector is a boolean expression evaluated once per rule, with the
// variables:
//   - `name` (string): The rule name
//   - `event` (string): The event the rule applies to
//   - `action` (string): The rule action
//   - `enabled` (bool): Whether the rule is enabled
//   - `source` (string): The tier, "user" or "project"
//   - `path` (string): The rule document path
//   - `message` (string): The rule message
//   - `tool_matcher` (string): The tool matcher override, or ""
//   - `conditions` (list<map<string, string>>): The rule conditions, with
//     the keys "field", "operator", and "pattern"
//
// The path helpers pathBase, pathDir, and pathExt, and the CEL string and
// list extensions are available. For example:
//
//	source == "project" && conditions.exists(c, c.field == "command")
package expr
