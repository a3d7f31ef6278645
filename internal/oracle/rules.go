package oracle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Rule maps description keywords to an account. Rules are the offline,
// deterministic classifier: no network, no model drift.
type Rule struct {
	Keywords   []string `yaml:"keywords"`
	AccountID  int      `yaml:"account_id"`
	Confidence float64  `yaml:"confidence,omitempty"`
}

// ruleFile is the shape of rules/categorization-rules.yaml.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// defaultRuleConfidence applies when a rule does not set its own.
const defaultRuleConfidence = 0.8

// Rules is a keyword-based classifier loaded from a YAML rule file.
type Rules struct {
	rules []Rule
}

// NewRules creates a classifier from in-memory rules.
func NewRules(rules []Rule) *Rules {
	return &Rules{rules: rules}
}

// LoadRules reads a categorization-rules.yaml file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return NewRules(rf.Rules), nil
}

// Name returns the classifier name for logging.
func (r *Rules) Name() string { return "rules" }

// Classify matches rule keywords against the description, first match per
// rule wins. Rules pointing at accounts outside the candidate list are
// skipped so the result is always chart-constrained.
func (r *Rules) Classify(_ context.Context, description string, candidates []model.Account) ([]Candidate, error) {
	allowed := make(map[int]bool, len(candidates))
	for _, a := range candidates {
		allowed[a.ID] = true
	}

	desc := strings.ToLower(description)

	var out []Candidate
	for _, rule := range r.rules {
		if !allowed[rule.AccountID] {
			continue
		}
		for _, kw := range rule.Keywords {
			if kw == "" || !strings.Contains(desc, strings.ToLower(kw)) {
				continue
			}
			conf := rule.Confidence
			if conf == 0 {
				conf = defaultRuleConfidence
			}
			out = append(out, Candidate{
				AccountID:  rule.AccountID,
				Confidence: clamp(conf),
				Rationale:  fmt.Sprintf("matched keyword %q", kw),
			})
			break
		}
	}
	return out, nil
}
