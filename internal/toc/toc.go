// Package toc reads chapter stubs from the table-of-contents block of a
// scraped thread.
package toc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Stub is a chapter as declared by one TOC row.
type Stub struct {
	ID     string
	Title  string
	Indent int
}

var indentClass = regexp.MustCompile(`^indent(.*)$`)

// Extract returns one stub per TOC row that links to an in-page anchor.
// Rows without such a link are skipped.
func Extract(container *goquery.Selection) []Stub {
	rows := container.Find("tr")
	if rows.Length() == 0 {
		rows = container.Children()
	}

	var stubs []Stub
	rows.Each(func(_ int, row *goquery.Selection) {
		if s, ok := ParseRow(row); ok {
			stubs = append(stubs, s)
		}
	})
	return stubs
}

// ParseRow reads the first cell's anchor link and indent marker.
func ParseRow(row *goquery.Selection) (Stub, bool) {
	cell := row.Find("td, th").First()
	if cell.Length() == 0 {
		cell = row
	}
	link := cell.Find(`a[href^="#"]`).First()
	if link.Length() == 0 && goquery.NodeName(cell) == "a" {
		link = cell
	}
	href, _ := link.Attr("href")
	id := strings.TrimPrefix(href, "#")
	if id == "" {
		return Stub{}, false
	}
	return Stub{
		ID:     id,
		Title:  strings.TrimSpace(link.Text()),
		Indent: Indent(link.Parent()),
	}, true
}

// Indent reads the indent marker of a link's parent: a class "indent" on
// the parent or on a span inside it. A bare marker is level 1, "indentN" is
// level N, and an unreadable suffix falls back to 1. No marker is level 0.
func Indent(parent *goquery.Selection) int {
	level, found := 0, false
	check := func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		for _, c := range strings.Fields(class) {
			m := indentClass.FindStringSubmatch(c)
			if m == nil {
				continue
			}
			found, level = true, 1
			if n, err := strconv.Atoi(strings.TrimLeft(m[1], "-_")); err == nil && n >= 0 {
				level = n
			}
			return false
		}
		return true
	}
	parent.EachWithBreak(check)
	if !found {
		parent.Find("span").EachWithBreak(check)
	}
	return level
}

// separators are trimmed from chapter titles once the book title is removed.
const separators = " \t　-_—–:：|｜·•,，.。/\\~～"

// CleanTitle strips the book title and surrounding separator punctuation
// from a TOC link text. A title that would become empty is returned trimmed.
func CleanTitle(raw, bookTitle string) string {
	t := raw
	if bookTitle != "" {
		t = strings.ReplaceAll(t, bookTitle, "")
	}
	t = strings.Trim(t, separators)
	t = strings.TrimSpace(t)
	if t == "" {
		return strings.TrimSpace(raw)
	}
	return t
}
