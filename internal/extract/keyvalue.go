package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/brogergvhs/polscrape/internal/model"
)

const (
	labelTags   = "b, strong, label, span, div"
	maxLabelLen = 50
)

// KeyValues collects label/value pairs below sel. Definition lists are paired
// first (dt with dd by position), then any short element ending in a colon
// takes the text of its next non-blank sibling as value. Later pairs
// overwrite earlier ones; labels without a value are dropped.
func KeyValues(sel *goquery.Selection) *model.Fields {
	out := model.NewFields()

	dls := sel.Find("dl")
	if sel.Is("dl") {
		dls = sel
	}
	dls.Each(func(_ int, dl *goquery.Selection) {
		dts, dds := dl.Find("dt"), dl.Find("dd")
		for i := 0; i < min(dts.Length(), dds.Length()); i++ {
			key := strings.TrimRight(text(dts.Eq(i)), ":")
			out.Set(key, text(dds.Eq(i)))
		}
	})

	sel.Find(labelTags).Each(func(_ int, el *goquery.Selection) {
		if utf8.RuneCountInString(el.Text()) > maxLabelLen {
			return
		}

		label := text(el)
		if !strings.HasSuffix(label, ":") {
			return
		}

		if val := siblingValue(el.Get(0)); val != "" {
			out.Set(strings.TrimRight(label, ":"), val)
		}
	})

	return out
}

// siblingValue reads the first sibling after n that is not blank text.
func siblingValue(n *html.Node) string {
	sib := n.NextSibling
	for sib != nil && sib.Type == html.TextNode && strings.TrimSpace(sib.Data) == "" {
		sib = sib.NextSibling
	}
	if sib == nil {
		return ""
	}

	switch sib.Type {
	case html.TextNode:
		return strings.TrimSpace(sib.Data)
	case html.ElementNode:
		return text(goquery.NewDocumentFromNode(sib).Selection)
	default:
		return ""
	}
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
