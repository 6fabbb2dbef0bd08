package model

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an insertion-ordered string map. Setting an existing key
// replaces the value and keeps the key's first position.
type Fields = orderedmap.OrderedMap[string, string]

func NewFields() *Fields {
	return orderedmap.New[string, string]()
}

// FieldsOf builds Fields from alternating key, value arguments.
func FieldsOf(kv ...string) *Fields {
	f := NewFields()
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}

	return f
}

// MergeFields copies every pair of src into dst, src winning on collision.
func MergeFields(dst, src *Fields) {
	if dst == nil || src == nil {
		return
	}
	for p := src.Oldest(); p != nil; p = p.Next() {
		dst.Set(p.Key, p.Value)
	}
}

func cloneFields(src *Fields) *Fields {
	if src == nil {
		return nil
	}
	out := NewFields()
	MergeFields(out, src)

	return out
}

// Row is one table row: either a header-aligned mapping or, when the cell
// count did not match the header count, the positional cell texts.
type Row struct {
	Fields *Fields
	Values []string
}

func (r Row) Positional() bool {
	return r.Fields == nil
}

func (r Row) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(map[string][]string{"values": r.Values})
	}

	return r.Fields.MarshalJSON()
}

type Table struct {
	Rows []Row
}

func (t Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = []Row{}
	}

	return json.Marshal(struct {
		Type string `json:"type"`
		Data []Row  `json:"data"`
	}{Type: "table", Data: rows})
}

// ListItem is a list entry that parsed into a mapping, or its raw text.
type ListItem struct {
	Fields *Fields
	Text   string
}

func (li ListItem) MarshalJSON() ([]byte, error) {
	if li.Fields != nil {
		return li.Fields.MarshalJSON()
	}

	return json.Marshal(li.Text)
}

type List []ListItem

// Section groups the content found under one heading.
type Section struct {
	Name   string  `json:"-"`
	Tables []Table `json:"tables"`
	Lists  []List  `json:"lists"`
	KV     *Fields `json:"kv_pairs"`
}

func NewSection(name string) *Section {
	return &Section{
		Name:   name,
		Tables: []Table{},
		Lists:  []List{},
		KV:     NewFields(),
	}
}

// Absorb appends other's tables and lists and merges its key-values,
// other winning on key collision.
func (s *Section) Absorb(other *Section) {
	if other == nil {
		return
	}
	s.Tables = append(s.Tables, other.Tables...)
	s.Lists = append(s.Lists, other.Lists...)
	MergeFields(s.KV, other.KV)
}

func (s *Section) clone() *Section {
	c := NewSection(s.Name)
	c.Tables = append(c.Tables, s.Tables...)
	c.Lists = append(c.Lists, s.Lists...)
	if s.KV != nil {
		c.KV = cloneFields(s.KV)
	}

	return c
}

// Sections maps section names to their content in discovery order.
type Sections = orderedmap.OrderedMap[string, *Section]

func NewSections() *Sections {
	return orderedmap.New[string, *Section]()
}

// AddSection stores s under its name, absorbing into an existing section of
// the same literal name.
func AddSection(all *Sections, s *Section) {
	if cur, ok := all.Get(s.Name); ok {
		cur.Absorb(s)
		return
	}
	all.Set(s.Name, s)
}
