package scraper

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var nextTexts = []string{"next", "next >", ">", "next page", "more"}

// NextPageURL returns the target of the first anchor carrying an href whose
// trimmed, lower-cased text is a "next page" label, resolved against pageURL.
// Anchors without an href, such as menu toggles, are never candidates.
func NextPageURL(doc *goquery.Document, pageURL string) string {
	a := doc.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return slices.Contains(nextTexts, strings.ToLower(strings.TrimSpace(a.Text())))
	}).First()
	if a.Length() == 0 {
		return ""
	}

	href, _ := a.Attr("href")
	return resolveURL(pageURL, strings.TrimSpace(href))
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}

	return b.ResolveReference(u).String()
}
