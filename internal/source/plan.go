package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/reserva/internal/model"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Text is a raw amount as written by the user. It decodes from any YAML
// scalar so `target: 5000` and `variable_income: "600 a 1000"` both work.
type Text string

// UnmarshalYAML keeps the literal scalar value.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected an amount, got a %s", node.Line, nodeKindName(node.Kind))
	}
	*t = Text(node.Value)
	return nil
}

// UnmarshalJSON accepts a JSON string or number.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected an amount, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

// Plan is the on-disk form of a set of entries.
// The same shape is accepted as a JSON request body by the server.
type Plan struct {
	FixedIncome      Text `yaml:"fixed_income" json:"fixed_income"`
	VariableIncome   Text `yaml:"variable_income" json:"variable_income"`
	FixedExpenses    Text `yaml:"fixed_expenses" json:"fixed_expenses"`
	VariableExpenses Text `yaml:"variable_expenses" json:"variable_expenses"`
	Target           Text `yaml:"target" json:"target"`
	MaxMonths        int  `yaml:"max_months,omitempty" json:"max_months,omitempty"`
}

// Entries resolves the plan text into engine entries. A zero MaxMonths in
// the plan falls back to defaultMonths.
func (p Plan) Entries(defaultMonths int) model.Entries {
	months := p.MaxMonths
	if months == 0 {
		months = defaultMonths
	}
	return model.Entries{
		FixedIncome:      ParseAmount(string(p.FixedIncome)),
		VariableIncome:   ParseRange(string(p.VariableIncome)),
		FixedExpenses:    ParseAmount(string(p.FixedExpenses)),
		VariableExpenses: ParseRange(string(p.VariableExpenses)),
		Target:           ParseAmount(string(p.Target)),
		MaxMonths:        months,
	}
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (Plan, error) {
	var p Plan
	data, err := os.ReadFile(path) //nolint:gosec // plan path is supplied by the local user
	if err != nil {
		return p, fmt.Errorf("reading plan: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	if p.MaxMonths < 0 {
		return p, fmt.Errorf("parsing plan %s: max_months must not be negative", path)
	}
	return p, nil
}

// SavePlan writes a YAML plan file, creating parent directories.
func SavePlan(path string, p Plan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating plan dir: %w", err)
		}
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // plans are not secret
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
