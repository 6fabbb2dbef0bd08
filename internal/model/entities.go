package model

// Insured is the party a page describes. Optional fields stay nil until a
// mapping rule fills them.
type Insured struct {
	Name           *string           `json:"name"`
	Address        *string           `json:"address"`
	Age            *int              `json:"age"`
	Phone          *string           `json:"phone"`
	Email          *string           `json:"email"`
	AdditionalData map[string]string `json:"additional_data"`
}

func NewInsured() *Insured {
	return &Insured{AdditionalData: map[string]string{}}
}

func (i *Insured) IsZero() bool {
	return i == nil ||
		i.Name == nil && i.Address == nil && i.Age == nil && i.Phone == nil && i.Email == nil &&
			len(i.AdditionalData) == 0
}

type Agency struct {
	Name           *string           `json:"name"`
	Address        *string           `json:"address"`
	Phone          *string           `json:"phone"`
	ProducerName   *string           `json:"producer_name"`
	ProducerCode   *string           `json:"producer_code"`
	AdditionalData map[string]string `json:"additional_data"`
}

func NewAgency() *Agency {
	return &Agency{AdditionalData: map[string]string{}}
}

func (a *Agency) IsZero() bool {
	return a == nil ||
		a.Name == nil && a.Address == nil && a.Phone == nil && a.ProducerName == nil && a.ProducerCode == nil &&
			len(a.AdditionalData) == 0
}

// Policy has no identity key; every accepted row becomes its own record.
type Policy struct {
	PolicyNumber   *string           `json:"policy_number"`
	EffectiveDate  *string           `json:"effective_date"`
	ExpirationDate *string           `json:"expiration_date"`
	Premium        *string           `json:"premium"`
	Status         *string           `json:"status"`
	Carrier        *string           `json:"carrier"`
	CoverageType   *string           `json:"coverage_type"`
	AdditionalData map[string]string `json:"additional_data"`
}

func NewPolicy() *Policy {
	return &Policy{AdditionalData: map[string]string{}}
}

// String returns a pointer to a copy of s.
func String(s string) *string {
	return &s
}

// Int returns a pointer to a copy of n.
func Int(n int) *int {
	return &n
}
