// Package segment finds chapters embedded in the body of another chapter:
// paragraphs that read only "第三章" and the like start a new chapter.
package segment

import (
	"regexp"
	"strconv"

	"github.com/yanlinsun/bookeditor/internal/book"
	"github.com/yanlinsun/bookeditor/internal/normalize"
	"github.com/yanlinsun/bookeditor/internal/numeral"
)

var paragraph = regexp.MustCompile(`<p>(.*?)</p>`)

// Heading is a heading-only paragraph found in normalized content.
type Heading struct {
	Text       string
	Start, End int // byte span of the whole <p>…</p> element
}

// Headings lists heading-only paragraphs of normalized content in document order.
func Headings(content string) []Heading {
	var out []Heading
	for _, m := range paragraph.FindAllStringSubmatchIndex(content, -1) {
		text := content[m[2]:m[3]]
		if numeral.IsHeading(text) {
			out = append(out, Heading{Text: text, Start: m[0], End: m[1]})
		}
	}
	return out
}

// Segmenter splits chapters at embedded headings.
type Segmenter struct {
	// Threshold feeds the ignore rule of synthesized chapters.
	Threshold int
	// Taken reports whether a chapter id is already used.
	Taken func(id string) bool
}

// Split truncates parent's content before its first embedded heading and
// returns one synthesized chapter per heading. Each runs from just after its
// heading to the next heading or the end of the content. Children are
// siblings of parent at Indent+1 and all share Order+1. With no heading the
// parent is left untouched and Split returns nil.
func (s Segmenter) Split(parent *book.Chapter) []*book.Chapter {
	content := parent.Content
	headings := Headings(content)
	if len(headings) == 0 {
		return nil
	}

	children := make([]*book.Chapter, 0, len(headings))
	counter := 0
	for i, h := range headings {
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		var id string
		id, counter = s.nextID(parent.ID, counter)
		parentID := parent.ID
		child := &book.Chapter{
			ID:      id,
			Title:   h.Text,
			Indent:  parent.Indent + 1,
			Order:   parent.Order + 1,
			Content: normalize.Normalize(content[h.End:end]),
			Parent:  &parentID,
		}
		child.Ignore = child.ShouldIgnore(s.Threshold)
		children = append(children, child)
	}

	parent.Content = normalize.Normalize(content[:headings[0].Start])
	parent.Ignore = parent.ShouldIgnore(s.Threshold)
	return children
}

// nextID returns parent+counter for the next free counter value.
func (s Segmenter) nextID(parent string, counter int) (string, int) {
	for {
		counter++
		id := parent + strconv.Itoa(counter)
		if s.Taken == nil || !s.Taken(id) {
			return id, counter
		}
	}
}
