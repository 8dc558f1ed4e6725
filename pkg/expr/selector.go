package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/hookify/pkg/rule"
)

// RuleVariables declares the variables available to a [Selector].
func RuleVariables() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Variable("name", cel.StringType),
		cel.Variable("event", cel.StringType),
		cel.Variable("action", cel.StringType),
		cel.Variable("enabled", cel.BoolType),
		cel.Variable("source", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("tool_matcher", cel.StringType),
		cel.Variable("conditions", cel.ListType(cel.MapType(cel.StringType, cel.StringType))),
	}
}

// Selector selects rules with a CEL expression.
type Selector struct {
	program    cel.Program
	expression string
}

// NewSelector compiles expression into a [Selector].
func NewSelector(expression string) (*Selector, error) {
	env, err := NewEnvironment(RuleVariables()...)
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", expression, err)
	}

	return &Selector{program: program, expression: expression}, nil
}

// Match reports whether r is selected.
func (s *Selector) Match(r *rule.Rule) (bool, error) {
	conditions := make([]map[string]string, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		conditions = append(conditions, map[string]string{
			"field":    c.Field,
			"operator": c.Operator,
			"pattern":  c.Pattern,
		})
	}

	result, _, err := s.program.Eval(map[string]any{
		"name":         r.Name,
		"event":        r.Event,
		"action":       r.Action,
		"enabled":      r.Enabled,
		"source":       string(r.Source),
		"path":         r.SourcePath,
		"message":      r.Message,
		"tool_matcher": r.ToolMatcher,
		"conditions":   conditions,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q for rule %q: %w", s.expression, r.Name, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %v for rule %q", ErrNotBool, s.expression, result.Value(), r.Name)
	}

	return b, nil
}

// Filter returns the rules in rules that s selects. It stops at the first
// evaluation error.
func (s *Selector) Filter(rules []*rule.Rule) ([]*rule.Rule, error) {
	var out []*rule.Rule

	for _, r := range rules {
		ok, err := s.Match(r)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, r)
		}
	}

	return out, nil
}

func (s *Selector) String() string {
	return s.expression
}
