// Package normalize turns the raw body markup of a scraped forum post into
// paragraph-wrapped text.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	titleBanner = regexp.MustCompile(`<div class="title">.*?</div>`)
	backToTop   = regexp.MustCompile(`<a href="#top"[^>]*>[^<]*</a>`)
	editNote    = regexp.MustCompile(`\[[^\n]*?本帖最[后後]由[^\n]*?[编編][辑輯][^\n]*?\]`)
)

const (
	paraOpen  = "<p>"
	paraClose = "</p>"
	paraBreak = "\n\n"
)

// Normalize cleans a chapter body. Blank lines and paragraph elements become
// paragraph boundaries, every other tag is dropped, and the result is
// "<p>…</p><p>…</p>". Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := titleBanner.ReplaceAllString(raw, "")
	s = backToTop.ReplaceAllString(s, "")
	s = RemoveEditNotes(s)
	s = stripTags(s)
	s = strings.ReplaceAll(s, "&nbsp;", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	return wrap(paragraphs(s))
}

// RemoveEditNotes drops moderator "本帖最后由 … 于 … 编辑" annotations.
func RemoveEditNotes(s string) string {
	return editNote.ReplaceAllString(s, "")
}

// stripTags keeps text tokens verbatim (entities stay escaped) and replaces
// paragraph elements with blank lines.
func stripTags(s string) string {
	var out strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out.String()
		case html.TextToken:
			out.Write(z.Raw())
		case html.StartTagToken, html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "p" {
				out.WriteString(paraBreak)
			}
		}
	}
}

// paragraphs splits text on blank lines, joining the lines of a paragraph
// without separators and dropping empty paragraphs.
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var (
		paras []string
		cur   strings.Builder
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			paras = append(paras, p)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur.WriteString(line)
	}
	flush()
	return paras
}

func wrap(paras []string) string {
	return paraOpen + strings.Join(paras, paraClose+paraOpen) + paraClose
}
