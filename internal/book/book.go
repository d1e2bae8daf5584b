// Package book holds the reconstructed book: its metadata and the ordered
// chapters a reader sees, plus the chapters set aside from the reading order.
package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// DefaultIgnoreThreshold is the content length below which a nested chapter
// is set aside.
const DefaultIgnoreThreshold = 200

var (
	ErrDuplicateID = errors.New("duplicate chapter id")
	ErrNotFound    = errors.New("chapter not found")
	ErrNoPrevious  = errors.New("no preceding chapter")
)

var namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("yanlin.sun/bookeditor"))

// Chapter is one unit of the reading order.
type Chapter struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Indent  int     `json:"indent" yaml:"indent"`
	Order   int     `json:"order" yaml:"order"`
	Content string  `json:"content,omitempty" yaml:"content,omitempty"`
	Ignore  bool    `json:"ignore" yaml:"ignore"`
	Parent  *string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Len is the content length used by the ignore rule, in runes.
func (c *Chapter) Len() int {
	return utf8.RuneCountInString(c.Content)
}

// ShouldIgnore reports whether c is a nested chapter too short to keep in
// the reading order.
func (c *Chapter) ShouldIgnore(threshold int) bool {
	return c.Indent > 0 && c.Len() < threshold
}

// Paragraphs returns the plain text of each paragraph of the content.
func (c *Chapter) Paragraphs() []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Content))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Book is a title, optional metadata and two chapter collections: the
// visible reading order and the ignored chapters. Chapter ids are unique
// across both.
type Book struct {
	Title     string
	Author    *string
	Date      *time.Time
	Publisher *string
	Language  *string

	chapters []*Chapter
	ignored  []*Chapter
	byID     map[string]*Chapter
}

// New returns an empty book.
func New(title string) *Book {
	return &Book{
		Title: title,
		byID:  make(map[string]*Chapter),
	}
}

// Identifier is a stable name-based UUID derived from the title.
func (b *Book) Identifier() string {
	return uuid.NewSHA1(namespace, []byte(b.Title)).String()
}

// Add appends c to the visible chapters.
func (b *Book) Add(c *Chapter) error {
	if _, ok := b.byID[c.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	b.byID[c.ID] = c
	b.chapters = append(b.chapters, c)
	return nil
}

// Has reports whether id names a chapter in either collection.
func (b *Book) Has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Get returns the chapter with the given id from either collection.
func (b *Book) Get(id string) (*Chapter, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// Chapters returns the visible chapters in reading order.
func (b *Book) Chapters() []*Chapter {
	return append([]*Chapter(nil), b.chapters...)
}

// Ignored returns the chapters excluded from the reading order.
func (b *Book) Ignored() []*Chapter {
	return append([]*Chapter(nil), b.ignored...)
}

// Len is the number of visible chapters.
func (b *Book) Len() int { return len(b.chapters) }

// Delete moves a visible chapter to the ignored collection. The chapter is
// kept and can be restored.
func (b *Book) Delete(id string) error {
	i := indexOf(b.chapters, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := b.chapters[i]
	b.chapters = append(b.chapters[:i], b.chapters[i+1:]...)
	c.Ignore = true
	b.ignored = append(b.ignored, c)
	return nil
}

// Restore moves an ignored chapter to the end of the reading order.
func (b *Book) Restore(id string) error {
	i := indexOf(b.ignored, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := b.ignored[i]
	b.ignored = append(b.ignored[:i], b.ignored[i+1:]...)
	c.Ignore = false
	b.chapters = append(b.chapters, c)
	return nil
}

// Move places a visible chapter at position to, clamped to the valid range.
func (b *Book) Move(id string, to int) error {
	i := indexOf(b.chapters, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := b.chapters[i]
	rest := append(b.chapters[:i:i], b.chapters[i+1:]...)
	to = max(0, min(to, len(rest)))
	b.chapters = append(rest[:to:to], append([]*Chapter{c}, rest[to:]...)...)
	return nil
}

// Merge appends the content of a visible chapter to the visible chapter
// before it and removes the merged chapter from the book.
func (b *Book) Merge(id string) error {
	i := indexOf(b.chapters, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if i == 0 {
		return fmt.Errorf("%w: %s", ErrNoPrevious, id)
	}
	prev, c := b.chapters[i-1], b.chapters[i]
	prev.Content += c.Content
	b.chapters = append(b.chapters[:i], b.chapters[i+1:]...)
	delete(b.byID, id)
	return nil
}

func indexOf(list []*Chapter, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
