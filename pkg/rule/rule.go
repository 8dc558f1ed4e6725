package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/macropower/hookify/pkg/header"
)

// Source identifies the tier a [Rule] was loaded from.
type Source string

const (
	SourceUser    Source = "user"
	SourceProject Source = "project"
)

// Events a rule can be attached to. Rules for any other event name are kept,
// they simply never match the events above.
const (
	EventAll    = "all"
	EventBash   = "bash"
	EventFile   = "file"
	EventStop   = "stop"
	EventPrompt = "prompt"
)

// Event fields a [Condition] can test.
const (
	FieldCommand  = "command"
	FieldNewText  = "new_text"
	FieldOldText  = "old_text"
	FieldFilePath = "file_path"
	FieldContent  = "content"
)

// Operators a [Condition] can use.
const (
	OperatorRegexMatch  = "regex_match"
	OperatorContains    = "contains"
	OperatorEquals      = "equals"
	OperatorNotContains = "not_contains"
	OperatorStartsWith  = "starts_with"
	OperatorEndsWith    = "ends_with"
)

const (
	ActionWarn  = "warn"
	ActionBlock = "block"

	defaultName = "unnamed"
)

// ErrMalformed indicates a header entry has a shape the rule cannot use.
var ErrMalformed = errors.New("malformed rule")

// Condition tests a single event field.
type Condition struct {
	// Field is the event property to test, e.g. "command" or "file_path".
	Field string `json:"field"`
	// Operator is the comparison, e.g. "regex_match" or "contains".
	Operator string `json:"operator"`
	// Pattern is the operand.
	Pattern string `json:"pattern"`
}

// NewCondition creates a [Condition] from a header map item. A missing
// operator defaults to [OperatorRegexMatch].
func NewCondition(m map[string]string) Condition {
	op, ok := m["operator"]
	if !ok {
		op = OperatorRegexMatch
	}

	return Condition{
		Field:    m["field"],
		Operator: op,
		Pattern:  m["pattern"],
	}
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Pattern)
}

// Rule is a hook rule read from a rule document.
type Rule struct {
	// Name identifies the rule. Project rules replace user rules of the same name.
	Name string `json:"name"`
	// Event is the event the rule applies to, or "all".
	Event string `json:"event"`
	// Pattern is the legacy single-pattern shorthand, if it was used.
	Pattern string `json:"pattern,omitempty"`
	// Action is what to do when the rule matches, e.g. "warn".
	Action string `json:"action"`
	// ToolMatcher overrides tool matching. Empty means no override.
	ToolMatcher string `json:"tool_matcher,omitempty"`
	// Message is the document body, shown when the rule triggers.
	Message string `json:"message"`
	// Source is the tier the rule was loaded from.
	Source Source `json:"source"`
	// SourcePath is the path of the rule document.
	SourcePath string `json:"source_path,omitempty"`
	// Conditions must all hold for the rule to match.
	Conditions []Condition `json:"conditions"`
	// Enabled reports whether the rule is active.
	Enabled bool `json:"enabled"`
}

// New creates a [Rule] from a parsed header and body.
//
// Explicit conditions take precedence. Without them, a legacy "pattern" entry
// becomes a single regex condition on the field implied by the event.
func New(h header.Header, body string, source Source, path string) (*Rule, error) {
	name, err := stringEntry(h, "name", defaultName)
	if err != nil {
		return nil, err
	}

	event, err := stringEntry(h, "event", EventAll)
	if err != nil {
		return nil, err
	}

	action, err := stringEntry(h, "action", ActionWarn)
	if err != nil {
		return nil, err
	}

	toolMatcher, err := stringEntry(h, "tool_matcher", "")
	if err != nil {
		return nil, err
	}

	pattern, err := stringEntry(h, "pattern", "")
	if err != nil {
		return nil, err
	}

	enabled, err := boolEntry(h, "enabled", true)
	if err != nil {
		return nil, err
	}

	conditions, err := conditionsEntry(h)
	if err != nil {
		return nil, err
	}

	if pattern != "" && len(conditions) == 0 {
		conditions = []Condition{{
			Field:    fieldForEvent(event),
			Operator: OperatorRegexMatch,
			Pattern:  pattern,
		}}
	}

	if conditions == nil {
		conditions = []Condition{}
	}

	return &Rule{
		Name:        name,
		Enabled:     enabled,
		Event:       event,
		Pattern:     pattern,
		Conditions:  conditions,
		Action:      action,
		ToolMatcher: toolMatcher,
		Message:     strings.TrimSpace(body),
		Source:      source,
		SourcePath:  path,
	}, nil
}

// MatchesEvent reports whether the rule applies to event. An empty event
// matches every rule.
func (r *Rule) MatchesEvent(event string) bool {
	return event == "" || r.Event == EventAll || r.Event == event
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s (%s, %s)", r.Name, r.Event, r.Source)
}

// fieldForEvent returns the field a legacy pattern tests for event.
func fieldForEvent(event string) string {
	switch event {
	case EventBash:
		return FieldCommand
	case EventFile:
		return FieldNewText
	}

	return FieldContent
}

// conditionsEntry reads the "conditions" list. Anything other than a list is
// ignored, so the legacy pattern can apply.
func conditionsEntry(h header.Header) ([]Condition, error) {
	list, ok := h["conditions"].([]any)
	if !ok {
		return nil, nil
	}

	conditions := make([]Condition, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]string)
		if !ok {
			return nil, fmt.Errorf("%w: conditions[%d]: expected field/operator/pattern entries, got %q",
				ErrMalformed, i, item)
		}

		conditions = append(conditions, NewCondition(m))
	}

	return conditions, nil
}

func stringEntry(h header.Header, key, def string) (string, error) {
	v, ok := h[key]
	if !ok {
		return def, nil
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case []any:
		// A key with no value opens an empty list.
		if len(v) == 0 {
			return def, nil
		}
	}

	return "", fmt.Errorf("%w: %s: expected a single value, got a list", ErrMalformed, key)
}

// boolEntry reads key as a flag. Values other than true and false count as
// set when non-empty.
func boolEntry(h header.Header, key string, def bool) (bool, error) {
	v, ok := h[key]
	if !ok {
		return def, nil
	}

	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return v != "", nil
	case []any:
		return len(v) > 0, nil
	}

	return false, fmt.Errorf("%w: %s: expected true or false, got %v", ErrMalformed, key, v)
}
