// Package policy applies CEL rules to storage module candidates.
package policy

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleConfig is the rules file layout.
type RuleConfig struct {
	Rules []DynamicRule `yaml:"rules"`
}

// ParseRules decodes a YAML rules document.
func ParseRules(data []byte) ([]DynamicRule, error) {
	var config RuleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	for i, r := range config.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule %d has no id", i)
		}
		switch r.Action {
		case ActionExclude, ActionWarn:
		case "":
			config.Rules[i].Action = ActionExclude
		default:
			return nil, fmt.Errorf("rule %s: unknown action %q", r.ID, r.Action)
		}
	}
	return config.Rules, nil
}

// LoadFile reads, parses and compiles a rules file.
func LoadFile(path string, logger *slog.Logger) (*CELEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, err
	}

	engine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	if logger != nil {
		engine.logger = logger
	}

	engine.logger.Info("Compiling Rules", "count", len(rules))
	if err := engine.Compile(rules); err != nil {
		return nil, err
	}
	return engine, nil
}
