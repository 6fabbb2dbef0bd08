package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/polscrape/internal/model"
)

// Tables converts sel (when it is a table) or every table below it into rows.
//
// The header list is every th in the table, regardless of which row holds
// it. Rows made only of header cells are skipped. A row whose cell count
// matches the header count becomes a mapping; any other row keeps its cell
// texts positionally. Tables without rows are left out.
func Tables(sel *goquery.Selection) []model.Table {
	candidates := sel.Find("table")
	if sel.Is("table") {
		candidates = sel
	}

	var out []model.Table
	candidates.Each(func(_ int, tbl *goquery.Selection) {
		headers := tbl.Find("th").Map(func(_ int, th *goquery.Selection) string {
			return text(th)
		})

		var rows []model.Row
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")
			if cells.Length() == cells.Filter("th").Length() {
				return
			}

			values := cells.Map(func(_ int, c *goquery.Selection) string {
				return text(c)
			})

			if len(values) != len(headers) {
				rows = append(rows, model.Row{Values: values})
				return
			}

			f := model.NewFields()
			for i, h := range headers {
				f.Set(h, values[i])
			}
			rows = append(rows, model.Row{Fields: f})
		})

		if len(rows) > 0 {
			out = append(out, model.Table{Rows: rows})
		}
	})

	return out
}
