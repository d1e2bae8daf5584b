// Package numeral decodes the chapter numbers embedded in titles such as
// "第十二章", "第３章" or "卷五" into integer sort keys.
package numeral

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

const (
	prefix = "第"
	digits = "0-9０-９零〇一二两三四五六七八九十百千万壹贰貳叁參肆伍陆陸柒捌玖拾佰仟萬"
	units  = "章节節回卷部篇集"
)

// sequenceExpr matches an optional "第", a run of numerals and an optional unit word.
// Submatch 1 is the numeral run.
const sequenceExpr = prefix + `?([` + digits + `]+)[` + units + `]?`

var (
	sequenceRegex = regexp.MustCompile(sequenceExpr)
	headingRegex  = regexp.MustCompile(`^` + sequenceExpr + `$`)
)

// Strategy decodes a bare numeral run. It reports false when the run is not
// written in the strategy's numeral system.
type Strategy func(run string) (int, bool)

// Chain is an ordered list of strategies; the first non-zero result wins.
type Chain []Strategy

// DefaultChain is the decoding order used by Decode.
var DefaultChain = Chain{
	SimplifiedShort,
	SimplifiedLong,
	TraditionalShort,
	TraditionalLong,
	Decimal,
}

// Decode returns the order key of the first numeral sequence in title, or 0.
func Decode(title string) int {
	return DefaultChain.Decode(title)
}

// Decode returns the order key of the first numeral sequence in title, or 0
// when there is none or no strategy yields a non-zero value.
func (c Chain) Decode(title string) int {
	run, ok := Find(title)
	if !ok {
		return 0
	}
	return c.DecodeRun(run)
}

// DecodeRun runs the chain on a bare numeral run.
func (c Chain) DecodeRun(run string) int {
	for _, s := range c {
		if n, ok := s(run); ok && n != 0 {
			return n
		}
	}
	return 0
}

// Find returns the numeral run of the first sequence in s.
func Find(s string) (string, bool) {
	m := sequenceRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsHeading reports whether text, trimmed, consists of a single numeral
// sequence and nothing else.
func IsHeading(text string) bool {
	return headingRegex.MatchString(strings.TrimSpace(text))
}

var (
	simplifiedDigits = map[rune]int{
		'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
		'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	}
	simplifiedUnits = map[rune]int{'十': 10, '百': 100, '千': 1000, '万': 10000}

	traditionalDigits = map[rune]int{
		'零': 0, '〇': 0, '壹': 1, '贰': 2, '貳': 2, '叁': 3, '參': 3, '肆': 4,
		'伍': 5, '陆': 6, '陸': 6, '柒': 7, '捌': 8, '玖': 9,
	}
	traditionalUnits = map[rune]int{'拾': 10, '佰': 100, '仟': 1000, '萬': 10000}
)

// SimplifiedShort reads digit-by-digit simplified numerals ("三" → 3, "二〇二" → 202).
func SimplifiedShort(run string) (int, bool) {
	return positional(run, simplifiedDigits)
}

// SimplifiedLong reads simplified numerals with magnitudes ("二十三" → 23).
func SimplifiedLong(run string) (int, bool) {
	return magnitudes(run, simplifiedDigits, simplifiedUnits)
}

// TraditionalShort reads digit-by-digit financial numerals ("叁" → 3).
func TraditionalShort(run string) (int, bool) {
	return positional(run, traditionalDigits)
}

// TraditionalLong reads financial numerals with magnitudes ("貳拾叁" → 23).
func TraditionalLong(run string) (int, bool) {
	return magnitudes(run, traditionalDigits, traditionalUnits)
}

// Decimal parses Arabic digits, full-width digits included.
func Decimal(run string) (int, bool) {
	n, err := strconv.Atoi(width.Narrow.String(run))
	if err != nil || n < 0 || n > MaxValue {
		return 0, false
	}
	return n, true
}

// MaxValue bounds decoded numbers; longer runs are rejected rather than
// wrapped.
const MaxValue = 1_000_000_000

func positional(run string, table map[rune]int) (int, bool) {
	if run == "" {
		return 0, false
	}
	n := 0
	for _, r := range run {
		d, ok := table[r]
		if !ok {
			return 0, false
		}
		n = n*10 + d
		if n > MaxValue {
			return 0, false
		}
	}
	return n, true
}

func magnitudes(run string, table, mags map[rune]int) (int, bool) {
	if run == "" {
		return 0, false
	}
	var total, section, num int
	sawDigit := false
	for _, r := range run {
		if d, ok := table[r]; ok {
			// two digits with no magnitude between them, "零" aside
			if sawDigit && num != 0 {
				return 0, false
			}
			num = d
			sawDigit = true
			continue
		}
		m, ok := mags[r]
		if !ok {
			return 0, false
		}
		if m == 10000 {
			total += (section + num) * m
			section, num = 0, 0
			sawDigit = false
			if total > MaxValue {
				return 0, false
			}
			continue
		}
		// "十二" has an implicit leading one.
		if num == 0 && !sawDigit {
			num = 1
		}
		section += num * m
		num = 0
		sawDigit = false
		if total+section > MaxValue {
			return 0, false
		}
	}
	if n := total + section + num; n <= MaxValue {
		return n, true
	}
	return 0, false
}
