// Package statement maps tokenized financial tables onto canonical
// statement entities. Row labels are bound to typed field setters via an
// embedded mapping table, and records parsed from separate sections and
// fiscal modes are reconciled by (period ending, period type).
package statement

import (
	_ "embed"
	"fmt"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var mappingsYAML []byte

// Binding ties a canonical field name to the row label fragment that
// locates it in a tokenized table. Bindings apply in declaration order.
type Binding struct {
	Field string `yaml:"field"`
	Label string `yaml:"label"`
}

type mappingSet struct {
	Income     []Binding `yaml:"income"`
	Balance    []Binding `yaml:"balance"`
	CashFlow   []Binding `yaml:"cashflow"`
	Ratios     []Binding `yaml:"ratios"`
	Statistics []Binding `yaml:"statistics"`
}

var bindings = mustLoadBindings()

func mustLoadBindings() *mappingSet {
	set, err := loadBindings(mappingsYAML)
	if err != nil {
		panic(fmt.Sprintf("statement: invalid embedded mappings: %v", err))
	}
	return set
}

// loadBindings parses the mapping table and checks every binding against
// the setter registries, so a field typo fails at startup instead of
// silently dropping values during ingestion.
func loadBindings(raw []byte) (*mappingSet, error) {
	var set mappingSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, eris.Wrap(err, "statement: parse mappings")
	}
	sections := []struct {
		name string
		bind []Binding
		has  func(field string) bool
	}{
		{"income", set.Income, func(f string) bool { _, ok := incomeSetters[f]; return ok }},
		{"balance", set.Balance, func(f string) bool { _, ok := balanceSetters[f]; return ok }},
		{"cashflow", set.CashFlow, func(f string) bool { _, ok := cashflowSetters[f]; return ok }},
		{"ratios", set.Ratios, func(f string) bool { _, ok := ratioSetters[f]; return ok }},
		{"statistics", set.Statistics, func(f string) bool { _, ok := statisticsSetters[f]; return ok }},
	}
	for _, sec := range sections {
		if len(sec.bind) == 0 {
			return nil, eris.Errorf("statement: mapping section %q is empty", sec.name)
		}
		seen := make(map[string]struct{}, len(sec.bind))
		for _, b := range sec.bind {
			if b.Field == "" || b.Label == "" {
				return nil, eris.Errorf("statement: %s binding missing field or label", sec.name)
			}
			if _, dup := seen[b.Field]; dup {
				return nil, eris.Errorf("statement: %s binds field %q twice", sec.name, b.Field)
			}
			seen[b.Field] = struct{}{}
			if !sec.has(b.Field) {
				return nil, eris.Errorf("statement: %s binding %q has no setter", sec.name, b.Field)
			}
		}
	}
	return &set, nil
}
