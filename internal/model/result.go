package model

// Result is the outcome of parsing one page, and also the aggregate that a
// paginated crawl accumulates page by page.
type Result struct {
	Insured  *Insured  `json:"insured"`
	Agency   *Agency   `json:"agency"`
	Policies []*Policy `json:"policies"`
	RawData  *Sections `json:"raw_data"`
}

func NewResult() *Result {
	return &Result{
		Policies: []*Policy{},
		RawData:  NewSections(),
	}
}

// Merge folds other into r.
//
// Insured and Agency are first-wins: once set on r they are never replaced.
// Policies are appended without deduplication. Sections missing from r are
// copied in; existing ones take other's tables and lists appended and its
// key-values merged over their own.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	if r.Insured == nil && other.Insured != nil {
		r.Insured = other.Insured
	}
	if r.Agency == nil && other.Agency != nil {
		r.Agency = other.Agency
	}

	r.Policies = append(r.Policies, other.Policies...)

	if other.RawData == nil {
		return
	}
	if r.RawData == nil {
		r.RawData = NewSections()
	}
	for p := other.RawData.Oldest(); p != nil; p = p.Next() {
		if cur, ok := r.RawData.Get(p.Key); ok {
			cur.Absorb(p.Value)
			continue
		}
		r.RawData.Set(p.Key, p.Value.clone())
	}
}

// Record is the persisted shape of one seed's aggregate.
type Record struct {
	Insured   *Insured  `json:"insured"`
	Agency    *Agency   `json:"agency"`
	Policies  []*Policy `json:"policies"`
	RawData   *Sections `json:"raw_data"`
	SourceURL string    `json:"source_url"`
}

func NewRecord(sourceURL string, r *Result) Record {
	if r == nil {
		r = NewResult()
	}

	return Record{
		Insured:   r.Insured,
		Agency:    r.Agency,
		Policies:  r.Policies,
		RawData:   r.RawData,
		SourceURL: sourceURL,
	}
}
