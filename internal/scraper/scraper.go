// Package scraper turns one fetched HTML page into a page result and the URL
// of the page that follows it.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/polscrape/internal/extract"
	"github.com/brogergvhs/polscrape/internal/mapper"
	"github.com/brogergvhs/polscrape/internal/model"
)

type Page struct {
	Result *model.Result
	// Next is the absolute URL of the next page, or "" when there is none.
	Next string
}

type Parser struct {
	mapper *mapper.Mapper
}

func NewParser(m *mapper.Mapper) *Parser {
	if m == nil {
		m = mapper.New(mapper.DefaultPatterns())
	}

	return &Parser{mapper: m}
}

func (p *Parser) Parse(pageURL, body string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return &Page{
		Result: p.mapper.Map(extract.Sections(doc)),
		Next:   NextPageURL(doc, pageURL),
	}, nil
}
