package reader

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanlinsun/bookeditor/internal/book"
	"github.com/yanlinsun/bookeditor/internal/metadata"
	"github.com/yanlinsun/bookeditor/internal/normalize"
	"github.com/yanlinsun/bookeditor/internal/numeral"
	"github.com/yanlinsun/bookeditor/internal/segment"
	"github.com/yanlinsun/bookeditor/internal/toc"
)

// ForumFormat reads a forum thread saved by the web scraper: an h1 title,
// a div.toc of anchor links and one div per chapter whose id is the anchor.
type ForumFormat struct{}

func init() {
	f := &ForumFormat{}
	Register(f)
	fallback = f
}

func (f *ForumFormat) Name() string { return "forum" }

func (f *ForumFormat) Detect(doc *goquery.Document) bool {
	if doc.Find(`meta[name="generator"][content="webscraper"]`).Length() > 0 {
		return true
	}
	return doc.Find("div.toc").Length() > 0 && doc.Find(savedChapterSelector).Length() == 0
}

func (f *ForumFormat) Parse(doc *goquery.Document, opts Options) (*book.Book, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	container := doc.Find("div.toc").First()
	if container.Length() == 0 {
		return nil, ErrNoTOC
	}

	b := book.New(titleOf(doc, "h1", opts.DefaultTitle))
	stubs := toc.Extract(container)
	bodies := contentDivs(doc)

	declared := make(map[string]bool, len(stubs))
	for _, s := range stubs {
		declared[s.ID] = true
	}
	seg := segment.Segmenter{
		Threshold: opts.IgnoreThreshold,
		Taken:     func(id string) bool { return b.Has(id) || declared[id] },
	}
	meta := metadata.NewExtractor(opts.SiteAliases)

	var prev *book.Chapter
	for _, s := range stubs {
		var raw string
		if div, ok := bodies[s.ID]; ok {
			raw, _ = div.Html()
		} else {
			logger.Debug("no content block for toc entry", "id", s.ID)
		}

		if !meta.Complete() {
			for _, field := range meta.Scan(raw) {
				logger.Debug("metadata found", "field", field, "chapter", s.ID)
			}
		}

		indent := min(max(s.Indent, 0), opts.MaxIndent)
		if indent != s.Indent {
			logger.Debug("indent clamped", "id", s.ID, "declared", s.Indent, "indent", indent)
		}
		title := toc.CleanTitle(s.Title, b.Title)
		ch := &book.Chapter{
			ID:      s.ID,
			Title:   title,
			Indent:  indent,
			Order:   numeral.Decode(title),
			Content: normalize.Normalize(raw),
		}
		if indent > 0 && prev != nil && prev.Indent == 0 {
			parent := prev.ID
			ch.Parent = &parent
		}

		if err := register(b, seg, ch, logger); err != nil {
			logger.Warn("skipping toc entry", "id", s.ID, "error", err)
			continue
		}
		prev = ch
	}

	m := meta.Result()
	b.Author, b.Date, b.Publisher = m.Author, m.Date, m.Publisher

	b.Assemble(opts.IgnoreThreshold)
	logger.Info("book assembled",
		"title", b.Title,
		"chapters", b.Len(),
		"ignored", len(b.Ignored()))
	return b, nil
}

// register adds ch to the book, then splits it and every chapter split off
// it. A chapter is in the book before it is segmented so its children can
// name it as parent; children are queued and added once the scan that found
// them is done.
func register(b *book.Book, seg segment.Segmenter, ch *book.Chapter, logger *slog.Logger) error {
	queue := []*book.Chapter{ch}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if err := b.Add(c); err != nil {
			return err
		}
		logger.Debug("chapter registered", "id", c.ID, "indent", c.Indent, "order", c.Order)

		children := seg.Split(c)
		if len(children) > 0 {
			logger.Info("chapters synthesized", "parent", c.ID, "count", len(children))
		}
		queue = append(queue, children...)
	}
	return nil
}

// contentDivs indexes chapter bodies by id, first occurrence wins.
func contentDivs(doc *goquery.Document) map[string]*goquery.Selection {
	out := make(map[string]*goquery.Selection)
	doc.Find("div[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if _, ok := out[id]; !ok {
			out[id] = s
		}
	})
	return out
}
