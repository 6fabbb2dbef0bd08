// Package mapper folds the raw sectioned structure of a page into Insured,
// Agency and Policy records using configurable label patterns.
package mapper

import (
	"slices"
	"strings"

	"github.com/brogergvhs/polscrape/internal/extract"
	"github.com/brogergvhs/polscrape/internal/model"
)

type Mapper struct {
	patterns Patterns
}

// New returns a Mapper using a private, normalized copy of p.
func New(p Patterns) *Mapper {
	return &Mapper{patterns: p.normalized()}
}

// Map builds a page result from sections. The sections become the result's
// raw data as is.
func (m *Mapper) Map(sections *model.Sections) *model.Result {
	r := model.NewResult()
	if sections == nil {
		return r
	}

	flat := flatten(sections)
	r.Insured = m.insured(flat)
	r.Agency = m.agency(flat)
	r.Policies = append(r.Policies, m.policies(sections)...)
	r.RawData = sections

	return r
}

// flatten merges every section's key-values and list item mappings into one
// map with lower-cased keys. Later keys overwrite earlier ones.
func flatten(sections *model.Sections) *model.Fields {
	flat := model.NewFields()
	add := func(f *model.Fields) {
		for p := f.Oldest(); p != nil; p = p.Next() {
			flat.Set(strings.ToLower(p.Key), p.Value)
		}
	}

	for s := sections.Oldest(); s != nil; s = s.Next() {
		add(s.Value.KV)
		for _, l := range s.Value.Lists {
			for _, item := range l {
				if item.Fields != nil {
					add(item.Fields)
				}
			}
		}
	}

	return flat
}

func (m *Mapper) insured(flat *model.Fields) *model.Insured {
	ins := model.NewInsured()
	for p := flat.Oldest(); p != nil; p = p.Next() {
		for _, r := range m.patterns.Insured {
			// Exact keys only: "primary insured name" does not match "insured name".
			if p.Key != r.Key {
				continue
			}
			insuredSetters[r.Field](ins, p.Value)
		}
	}

	if ins.IsZero() {
		return nil
	}

	return ins
}

func (m *Mapper) agency(flat *model.Fields) *model.Agency {
	ag := model.NewAgency()
	for p := flat.Oldest(); p != nil; p = p.Next() {
		i := slices.IndexFunc(m.patterns.Agency, func(r AgencyRule) bool { return r.Key == p.Key })
		if i < 0 {
			continue
		}
		agencySetters[m.patterns.Agency[i].Field](ag, p.Value)
	}

	if ag.IsZero() {
		return nil
	}

	return ag
}

// policies scans every table, then every list, for policy-shaped rows.
//
// Inside one table, positional rows that follow an accepted policy are
// continuation rows: their cells are parsed as mashed text into the
// additional data of the most recent policy of that table.
func (m *Mapper) policies(sections *model.Sections) []*model.Policy {
	var out []*model.Policy

	for s := sections.Oldest(); s != nil; s = s.Next() {
		for _, tbl := range s.Value.Tables {
			var last *model.Policy
			for _, row := range tbl.Rows {
				if row.Positional() {
					if last != nil {
						for _, v := range row.Values {
							for p := extract.ParseMashed(v).Oldest(); p != nil; p = p.Next() {
								last.AdditionalData[p.Key] = p.Value
							}
						}
					}
					continue
				}

				if pol := m.policyFromRow(row.Fields); pol != nil {
					out = append(out, pol)
					last = pol
				}
			}
		}
	}

	for s := sections.Oldest(); s != nil; s = s.Next() {
		for _, l := range s.Value.Lists {
			for _, item := range l {
				if item.Fields == nil {
					continue
				}
				if pol := m.policyFromRow(item.Fields); pol != nil {
					out = append(out, pol)
				}
			}
		}
	}

	return out
}

func (m *Mapper) policyFromRow(row *model.Fields) *model.Policy {
	keys := make([]string, 0, row.Len())
	for p := row.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, strings.ToLower(p.Key))
	}

	if !m.policyShaped(keys) || m.genericID(keys) {
		return nil
	}

	pol := model.NewPolicy()
	identified := false

	for p := row.Oldest(); p != nil; p = p.Next() {
		k := strings.ToLower(p.Key)
		switch {
		case strings.Contains(k, "policy") && strings.Contains(k, "number"), k == "id":
			pol.PolicyNumber = model.String(p.Value)
			identified = true
		case strings.Contains(k, "effective"):
			pol.EffectiveDate = model.String(p.Value)
			identified = true
		case strings.Contains(k, "expiration"), strings.Contains(k, "termination"):
			pol.ExpirationDate = model.String(p.Value)
		case strings.Contains(k, "premium"):
			pol.Premium = model.String(p.Value)
			identified = true
		case strings.Contains(k, "carrier"):
			pol.Carrier = model.String(p.Value)
		case strings.Contains(k, "status"):
			pol.Status = model.String(p.Value)
		default:
			pol.AdditionalData[p.Key] = p.Value
		}
	}

	if !identified {
		return nil
	}

	return pol
}

func (m *Mapper) policyShaped(keys []string) bool {
	for _, k := range keys {
		for _, ind := range m.patterns.PolicyIndicators {
			if strings.Contains(k, ind) {
				return true
			}
		}
	}

	return false
}

// genericID reports a row keyed by a bare "id" with no date or money key and
// no key mentioning a policy.
func (m *Mapper) genericID(keys []string) bool {
	if !slices.Contains(keys, "id") {
		return false
	}
	for _, k := range m.patterns.DateMoneyKeys {
		if slices.Contains(keys, k) {
			return false
		}
	}

	return !slices.ContainsFunc(keys, func(k string) bool {
		return strings.Contains(k, "policy")
	})
}
