package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/polscrape/internal/model"
)

const headingTags = "h1, h2, h3, h4, h5, h6"

// GeneralSection names the single section of a document without headings.
const GeneralSection = "General"

// Sections partitions doc by its headings.
//
// A heading's section is the run of element siblings after it, up to the
// next heading sibling. Headings nested deeper than that sibling run do not
// end it, so the content of such a subsection also lands in the enclosing
// one. Repeated heading texts accumulate into one section. A document
// without headings becomes one "General" section over the whole tree.
func Sections(doc *goquery.Document) *model.Sections {
	out := model.NewSections()

	headings := doc.Find(headingTags)
	if headings.Length() == 0 {
		s := model.NewSection(GeneralSection)
		collect(s, doc.Selection)
		out.Set(GeneralSection, s)

		return out
	}

	headings.Each(func(_ int, h *goquery.Selection) {
		s := model.NewSection(text(h))
		h.NextUntil(headingTags).Each(func(_ int, node *goquery.Selection) {
			collect(s, node)
		})
		model.AddSection(out, s)
	})

	return out
}

func collect(s *model.Section, sel *goquery.Selection) {
	s.Tables = append(s.Tables, Tables(sel)...)
	s.Lists = append(s.Lists, Lists(sel)...)
	model.MergeFields(s.KV, KeyValues(sel))
}
