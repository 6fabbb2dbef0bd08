package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/polscrape/internal/model"
)

// Lists converts sel (when it is a ul/ol) or every list below it into items.
// Each direct li becomes its key-values if it has any, else its mashed-text
// pairs if there are at least two, else its plain text. Empty lists are left
// out.
func Lists(sel *goquery.Selection) []model.List {
	candidates := sel.Find("ul, ol")
	if sel.Is("ul, ol") {
		candidates = sel
	}

	var out []model.List
	candidates.Each(func(_ int, l *goquery.Selection) {
		var items model.List
		l.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			if kv := KeyValues(li); kv.Len() > 0 {
				items = append(items, model.ListItem{Fields: kv})
				return
			}

			t := text(li)
			if parsed := ParseMashed(t); parsed.Len() > 1 {
				items = append(items, model.ListItem{Fields: parsed})
				return
			}
			items = append(items, model.ListItem{Text: t})
		})

		if len(items) > 0 {
			out = append(out, items)
		}
	})

	return out
}
