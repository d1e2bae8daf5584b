// Package metadata mines author, date and publisher lines out of raw chapter
// bodies.
package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/yanlinsun/bookeditor/internal/normalize"
)

// DefaultSiteAliases maps forum site names to their display names.
var DefaultSiteAliases = map[string]string{
	"sis001": "第一会所",
}

var (
	authorLine    = regexp.MustCompile(`(?i)(?:作者|author)\s*[:：]\s*([^<\n]+?)\s*<br\s*/?>`)
	publisherLine = regexp.MustCompile(`(?i)(?:首[发發][于於]|首[发發]|[发發]表[于於]|first published (?:at|on|in)|posted (?:at|on|in))\s*[:：]?\s*([^<\n]+?)\s*(?:<br|\n|$)`)
	cnDate        = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	numericDate   = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

// Metadata holds the fields found so far. Nil means not found.
type Metadata struct {
	Author    *string
	Date      *time.Time
	Publisher *string
}

// Author returns the text of the first author line in body.
func Author(body string) (string, bool) {
	m := authorLine.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Date returns the first Chinese or numeric calendar date in body.
// Moderator edit annotations are skipped; their timestamps are not
// publication dates.
func Date(body string) (time.Time, bool) {
	body = width.Narrow.String(normalize.RemoveEditNotes(body))
	for _, re := range []*regexp.Regexp{cnDate, numericDate} {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if t, ok := calendarDate(m[1], m[2], m[3]); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// calendarDate rejects dates time.Date would roll over, such as 2月31日.
func calendarDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Publisher returns where the work says it was first posted.
func Publisher(body string) (string, bool) {
	m := publisherLine.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Extractor accumulates metadata over chapters in order. A field is taken
// from the first body that yields it and never overwritten.
type Extractor struct {
	aliases map[string]string
	meta    Metadata
}

// NewExtractor returns an Extractor rewriting publishers through aliases.
// A nil map uses DefaultSiteAliases.
func NewExtractor(aliases map[string]string) *Extractor {
	if aliases == nil {
		aliases = DefaultSiteAliases
	}
	lower := make(map[string]string, len(aliases))
	for k, v := range aliases {
		lower[strings.ToLower(k)] = v
	}
	return &Extractor{aliases: lower}
}

// Scan fills the fields still missing from body and returns the names of
// the fields it set.
func (e *Extractor) Scan(body string) []string {
	var found []string
	if e.meta.Author == nil {
		if v, ok := Author(body); ok {
			e.meta.Author = &v
			found = append(found, "author")
		}
	}
	if e.meta.Date == nil {
		if v, ok := Date(body); ok {
			e.meta.Date = &v
			found = append(found, "date")
		}
	}
	if e.meta.Publisher == nil {
		if v, ok := Publisher(body); ok {
			v = e.alias(v)
			e.meta.Publisher = &v
			found = append(found, "publisher")
		}
	}
	return found
}

// Complete reports whether every field has been found.
func (e *Extractor) Complete() bool {
	return e.meta.Author != nil && e.meta.Date != nil && e.meta.Publisher != nil
}

// Result returns the accumulated metadata.
func (e *Extractor) Result() Metadata {
	return e.meta
}

// alias prefers an exact name match, then the longest contained name,
// then the alphabetically first.
func (e *Extractor) alias(publisher string) string {
	lower := strings.ToLower(publisher)
	if display, ok := e.aliases[lower]; ok {
		return display
	}
	best := ""
	for name := range e.aliases {
		if !strings.Contains(lower, name) {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	if best == "" {
		return publisher
	}
	return e.aliases[best]
}
