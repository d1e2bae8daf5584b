// Package reader loads scraped documents into books. Each supported document
// layout is a Format; formats register themselves and are picked by Detect.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanlinsun/bookeditor/internal/book"
)

var (
	// ErrNoTOC is returned when a document has no table of contents block.
	ErrNoTOC = errors.New("document has no table of contents")
	// ErrUnsupported is returned when a requested format is not registered.
	ErrUnsupported = errors.New("unsupported format")
)

// Format turns one document layout into a book.
type Format interface {
	Name() string
	Detect(doc *goquery.Document) bool
	Parse(doc *goquery.Document, opts Options) (*book.Book, error)
}

var (
	registry []Format
	fallback Format
)

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the registered format with the given name.
func Lookup(name string) (Format, bool) {
	for _, f := range registry {
		if strings.EqualFold(f.Name(), name) {
			return f, true
		}
	}
	return nil, false
}

// SupportedFormats returns the names of the registered formats.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name())
	}
	return out
}

// Options tune parsing. Zero values select the defaults.
type Options struct {
	// DefaultTitle is used when the document carries no title.
	DefaultTitle string
	// IgnoreThreshold is the content length below which nested chapters are ignored.
	IgnoreThreshold int
	// MaxIndent bounds declared TOC indents.
	MaxIndent int
	// SiteAliases rewrites publisher site names; nil selects the built-in aliases.
	SiteAliases map[string]string
	// Format forces a registered format by name instead of detection.
	Format string
	Logger *slog.Logger
}

const defaultMaxIndent = 2

func (o Options) withDefaults() Options {
	if o.IgnoreThreshold <= 0 {
		o.IgnoreThreshold = book.DefaultIgnoreThreshold
	}
	if o.MaxIndent <= 0 {
		o.MaxIndent = defaultMaxIndent
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Load reads and parses filename. Without a DefaultTitle the file's base
// name, minus extension, is used.
func Load(filename string, opts Options) (*book.Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if opts.DefaultTitle == "" {
		base := filepath.Base(filename)
		opts.DefaultTitle = strings.TrimSuffix(base, filepath.Ext(base))
	}
	b, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return b, nil
}

// Parse reads a document and hands it to the forced format, the first
// format that detects it, or the forum format.
func Parse(r io.Reader, opts Options) (*book.Book, error) {
	opts = opts.withDefaults()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	f, err := pick(doc, opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("parsing document", "format", f.Name())
	return f.Parse(doc, opts)
}

func pick(doc *goquery.Document, name string) (Format, error) {
	if name != "" {
		f, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
		}
		return f, nil
	}
	for _, f := range registry {
		if f.Detect(doc) {
			return f, nil
		}
	}
	return fallback, nil
}

// titleOf returns the trimmed text of the first match of selector, or def.
func titleOf(doc *goquery.Document, selector, def string) string {
	if t := strings.TrimSpace(doc.Find(selector).First().Text()); t != "" {
		return t
	}
	return def
}
