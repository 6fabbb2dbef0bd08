package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/polscrape/internal/mapper"
)

func TestNextPageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"relative next", `<a href="/a">Home</a><a href="?page=2"> Next </a>`, "https://x.test/list?page=2"},
		{"arrow", `<a href="p3.html">&gt;</a>`, "https://x.test/p3.html"},
		{"next page label", `<a href="https://y.test/2">NEXT PAGE</a>`, "https://y.test/2"},
		{"first match wins", `<a href="/one">more</a><a href="/two">next</a>`, "https://x.test/one"},
		{"substring does not match", `<a href="/n">Next results</a>`, ""},
		{"anchor without href is skipped", `<a>next</a><a href="/later">next</a>`, "https://x.test/later"},
		{
			"menu toggle before the pager",
			`<nav><a class="menu-toggle">More</a></nav><div class="pager"><a href="?page=2">Next</a></div>`,
			"https://x.test/list?page=2",
		},
		{"only href-less matches", `<a>Next</a><a>more</a>`, ""},
		{"empty href stays on the page", `<a href="">next</a>`, "https://x.test/list"},
		{"no anchors", `<p>nothing</p>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, NextPageURL(doc, "https://x.test/list"))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	p := NewParser(mapper.New(mapper.DefaultPatterns()))

	page, err := p.Parse("https://x.test/a/b", `<html><body>
		<h2>Policies</h2>
		<table>
			<tr><th>Policy Number</th><th>Premium</th></tr>
			<tr><td>P-1</td><td>$10</td></tr>
		</table>
		<a href="page2">Next</a>
	</body></html>`)
	require.NoError(t, err)

	require.Len(t, page.Result.Policies, 1)
	assert.Equal(t, "P-1", *page.Result.Policies[0].PolicyNumber)
	assert.Equal(t, "https://x.test/a/page2", page.Next)

	_, ok := page.Result.RawData.Get("Policies")
	assert.True(t, ok)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	p := NewParser(nil)
	src := `<h1>Insured</h1><dl><dt>Name</dt><dd>Acme</dd></dl>
		<h1>Policies</h1><ul><li>Policy Number: P-1 Effective: 2024-01-01</li></ul>`

	a, err := p.Parse("https://x.test/", src)
	require.NoError(t, err)
	b, err := p.Parse("https://x.test/", src)
	require.NoError(t, err)

	assert.Equal(t, a.Result.Insured, b.Result.Insured)
	assert.Equal(t, a.Result.Policies, b.Result.Policies)
	assert.Equal(t, "", a.Next)
}
