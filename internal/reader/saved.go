package reader

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanlinsun/bookeditor/internal/book"
)

const savedChapterSelector = "div.main div.content"

// SavedFormat reads a book the editor wrote back out as HTML. Chapters are
// already clean and ordered, so they are taken as they stand.
type SavedFormat struct{}

func init() {
	Register(&SavedFormat{})
}

func (f *SavedFormat) Name() string { return "saved" }

func (f *SavedFormat) Detect(doc *goquery.Document) bool {
	return doc.Find(savedChapterSelector).Length() > 0
}

func (f *SavedFormat) Parse(doc *goquery.Document, opts Options) (*book.Book, error) {
	opts = opts.withDefaults()

	b := book.New("")
	doc.Find("meta[name]").Each(func(_ int, m *goquery.Selection) {
		name, _ := m.Attr("name")
		content := strings.TrimSpace(m.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch name {
		case "DC.creator":
			b.Author = &content
		case "DC.language":
			b.Language = &content
		case "DC.title":
			b.Title = content
		case "DC.date":
			if d, ok := parseDate(content); ok {
				b.Date = &d
			} else {
				opts.Logger.Debug("unreadable DC.date", "value", content)
			}
		}
	})
	if b.Title == "" {
		b.Title = titleOf(doc, "title", opts.DefaultTitle)
	}

	var err error
	doc.Find(savedChapterSelector).EachWithBreak(func(i int, div *goquery.Selection) bool {
		heading := div.Find(".chapter").First()
		indent, convErr := strconv.Atoi(strings.TrimSpace(heading.AttrOr("indent", "")))
		if convErr != nil {
			indent = 0
		}
		content, _ := div.Find("div.text").First().Html()
		ch := &book.Chapter{
			ID:      div.AttrOr("id", strconv.Itoa(i)),
			Title:   strings.TrimSpace(heading.Text()),
			Indent:  indent,
			Order:   i,
			Content: strings.TrimSpace(content),
		}
		if err = b.Add(ch); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("saved book loaded", "title", b.Title, "chapters", b.Len())
	return b, nil
}

var dateLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly, "2006/01/02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
