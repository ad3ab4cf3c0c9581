// Package ingestion turns source documents (plain text, HTML, JSON page
// dumps and URLs) into the ordered page records the extraction pipeline
// consumes.
package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/dnav/internal/fetch"
	"github.com/jonathan/dnav/internal/types"
)

// pageSelectors mark explicit page containers in converted filings.
const pageSelectors = ".page, [data-page-number], section.page"

// SplitTextPages splits plain text into pages on form feeds. Line endings
// are normalized to LF and pages are numbered from 1. Blank pages are kept
// so numbering matches the source.
func SplitTextPages(content, fileName string) []types.PageText {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if strings.TrimSpace(content) == "" {
		return []types.PageText{}
	}

	parts := strings.Split(content, "\f")
	pages := make([]types.PageText, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, types.PageText{
			FileName:   fileName,
			PageNumber: i + 1,
			Text:       strings.Trim(part, "\n"),
		})
	}
	return pages
}

// ParseHTMLPages converts an HTML document into pages. Elements matching
// ".page", "[data-page-number]" or "section.page" become one page each
// (data-page-number is honoured when numeric); otherwise the main content
// is a single page.
func ParseHTMLPages(html, fileName string) ([]types.PageText, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	fetch.RemoveNoise(doc.Selection)

	containers := doc.Find(pageSelectors).FilterFunction(func(_ int, s *goquery.Selection) bool {
		// nested page markers belong to their outer page
		return s.ParentsFiltered(pageSelectors).Length() == 0
	})

	if containers.Length() == 0 {
		content := doc.Find("main").First()
		if content.Length() == 0 {
			content = doc.Find("body")
		}
		return []types.PageText{{FileName: fileName, PageNumber: 1, Text: fetch.BlockText(content)}}, nil
	}

	pages := make([]types.PageText, 0, containers.Length())
	containers.Each(func(i int, s *goquery.Selection) {
		number := i + 1
		if attr, ok := s.Attr("data-page-number"); ok {
			var n int
			if _, err := fmt.Sscanf(attr, "%d", &n); err == nil && n > 0 {
				number = n
			}
		}
		pages = append(pages, types.PageText{FileName: fileName, PageNumber: number, Text: fetch.BlockText(s)})
	})
	return pages, nil
}

// LoadJSONPages decodes either a bare array of pages or an object with a
// "pages" array. Missing file names take fileName; a zero page number takes
// the page's 1-based position.
func LoadJSONPages(data []byte, fileName string) ([]types.PageText, error) {
	var pages []types.PageText

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Pages []types.PageText `json:"pages"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse pages JSON: %w", err)
		}
		pages = wrapper.Pages
	} else if err := json.Unmarshal(trimmed, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse pages JSON: %w", err)
	}

	for i := range pages {
		if pages[i].FileName == "" {
			pages[i].FileName = fileName
		}
		if pages[i].PageNumber == 0 {
			pages[i].PageNumber = i + 1
		}
	}
	if pages == nil {
		pages = []types.PageText{}
	}
	return pages, nil
}
