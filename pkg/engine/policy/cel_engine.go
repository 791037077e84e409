package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/google/cel-go/cel"
)

// Rule actions.
const (
	ActionExclude = "exclude"
	ActionWarn    = "warn"
)

// DynamicRule is a user-defined candidate rule (e.g. from YAML).
type DynamicRule struct {
	ID        string `json:"id" yaml:"id"`
	Condition string `json:"condition" yaml:"condition"` // CEL expression: "faction == 'teladi' && size == 's'"
	Action    string `json:"action" yaml:"action"`       // "exclude", "warn"
	Priority  int    `json:"priority" yaml:"priority"`
}

// EvaluationContext is the module data exposed to rules.
type EvaluationContext struct {
	ID       string
	Name     string
	Faction  string
	Cargo    string
	Size     string
	Capacity float64
}

// ContextFor builds the evaluation context of a storage module.
func ContextFor(m *catalog.Module) EvaluationContext {
	ec := EvaluationContext{
		ID:      m.ID,
		Name:    m.Name,
		Faction: m.Maker,
		Size:    string(m.Size()),
	}
	if m.Cargo != nil {
		ec.Cargo = string(m.Cargo.Type)
		ec.Capacity = m.Cargo.Max
	}
	return ec
}

type compiledRule struct {
	rule    DynamicRule
	program cel.Program
}

// CELEngine manages the compilation and execution of dynamic rules.
type CELEngine struct {
	env    *cel.Env
	rules  []compiledRule
	logger *slog.Logger
}

// NewCELEngine initializes the CEL environment with the module variables.
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("faction", cel.StringType),
		cel.Variable("cargo", cel.StringType),
		cel.Variable("size", cel.StringType),
		cel.Variable("capacity", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &CELEngine{
		env:    env,
		logger: slog.Default(),
	}, nil
}

// Compile compiles a list of rules into executable programs.
// Rules are kept sorted by descending priority.
func (e *CELEngine) Compile(rules []DynamicRule) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return fmt.Errorf("rule %s must evaluate to bool, got %s", r.ID, ast.OutputType())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.rules = append(e.rules, compiledRule{rule: r, program: prg})
	}

	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].rule.Priority > e.rules[j].rule.Priority
	})
	return nil
}

// Len returns the number of compiled rules.
func (e *CELEngine) Len() int {
	return len(e.rules)
}

// Evaluate returns the rules matching data, highest priority first.
func (e *CELEngine) Evaluate(ctx context.Context, data EvaluationContext) ([]DynamicRule, error) {
	vars := map[string]any{
		"id":       data.ID,
		"name":     data.Name,
		"faction":  data.Faction,
		"cargo":    data.Cargo,
		"size":     data.Size,
		"capacity": data.Capacity,
	}

	var matches []DynamicRule
	for _, cr := range e.rules {
		if err := ctx.Err(); err != nil {
			return matches, err
		}

		out, _, err := cr.program.ContextEval(ctx, vars)
		if err != nil {
			e.logger.Error("Rule evaluation failed", "rule_id", cr.rule.ID, "error", err)
			continue
		}

		// Rules return true on match.
		if match, ok := out.Value().(bool); ok && match {
			matches = append(matches, cr.rule)
		}
	}

	return matches, nil
}

// Excludes reports whether an exclude rule matches m.
func (e *CELEngine) Excludes(m *catalog.Module) bool {
	matches, _ := e.Evaluate(context.Background(), ContextFor(m))
	for _, r := range matches {
		if r.Action == ActionExclude {
			return true
		}
		if r.Action == ActionWarn {
			e.logger.Warn("Candidate flagged by rule", "rule_id", r.ID, "module", m.ID)
		}
	}
	return false
}
