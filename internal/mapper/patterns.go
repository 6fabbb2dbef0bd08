package mapper

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownField = errors.New("unknown field")

// InsuredRule maps a normalized (lower-cased) label to an Insured field.
type InsuredRule struct {
	Key   string       `yaml:"key"`
	Field InsuredField `yaml:"field"`
}

// AgencyRule maps a normalized label to an Agency field.
type AgencyRule struct {
	Key   string      `yaml:"key"`
	Field AgencyField `yaml:"field"`
}

// Patterns is the heuristic configuration of a Mapper.
//
// PolicyIndicators admit a row as policy-shaped when any key contains one of
// them. DateMoneyKeys are the exact keys that keep a row with a bare "id"
// column from being rejected as a generic id table.
type Patterns struct {
	PolicyIndicators []string      `yaml:"policy_indicators"`
	DateMoneyKeys    []string      `yaml:"date_money_keys"`
	Insured          []InsuredRule `yaml:"insured"`
	Agency           []AgencyRule  `yaml:"agency"`
}

func DefaultPatterns() Patterns {
	return Patterns{
		PolicyIndicators: []string{"policy", "effective", "expiration", "premium", "coverage", "id"},
		DateMoneyKeys:    []string{"effective", "expiration", "premium", "date"},
		Insured: []InsuredRule{
			{Key: "insured name", Field: InsuredName},
			{Key: "business name", Field: InsuredName},
			{Key: "customer name", Field: InsuredName},
			{Key: "name", Field: InsuredName},
			{Key: "address", Field: InsuredAddress},
			{Key: "insured address", Field: InsuredAddress},
			{Key: "age", Field: InsuredAge},
			{Key: "email", Field: InsuredEmail},
		},
		Agency: []AgencyRule{
			{Key: "agency name", Field: AgencyName},
			{Key: "agent", Field: AgencyName},
			{Key: "broker", Field: AgencyName},
			{Key: "agency address", Field: AgencyAddress},
			{Key: "producer", Field: AgencyProducerName},
			{Key: "producer code", Field: AgencyProducerCode},
			{Key: "agency code", Field: AgencyCode},
		},
	}
}

// LoadPatterns reads a YAML pattern file. Tables missing from the file keep
// their defaults.
func LoadPatterns(path string) (Patterns, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Patterns{}, err
	}

	p := DefaultPatterns()
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Patterns{}, fmt.Errorf("patterns %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return Patterns{}, fmt.Errorf("patterns %s: %w", path, err)
	}

	return p, nil
}

func (p Patterns) Validate() error {
	for _, r := range p.Insured {
		if _, ok := insuredSetters[r.Field]; !ok {
			return fmt.Errorf("insured rule %q: %w %q", r.Key, ErrUnknownField, r.Field)
		}
	}
	for _, r := range p.Agency {
		if _, ok := agencySetters[r.Field]; !ok {
			return fmt.Errorf("agency rule %q: %w %q", r.Key, ErrUnknownField, r.Field)
		}
	}

	return nil
}

func (p Patterns) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}

// normalized returns a deep copy with lower-cased keys and indicators.
func (p Patterns) normalized() Patterns {
	out := Patterns{
		PolicyIndicators: lowerAll(p.PolicyIndicators),
		DateMoneyKeys:    lowerAll(p.DateMoneyKeys),
		Insured:          make([]InsuredRule, len(p.Insured)),
		Agency:           make([]AgencyRule, len(p.Agency)),
	}
	for i, r := range p.Insured {
		out.Insured[i] = InsuredRule{Key: strings.ToLower(r.Key), Field: r.Field}
	}
	for i, r := range p.Agency {
		out.Agency[i] = AgencyRule{Key: strings.ToLower(r.Key), Field: r.Field}
	}

	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}

	return out
}
