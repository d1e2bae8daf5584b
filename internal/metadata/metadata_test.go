package metadata

import (
	"testing"
	"time"
)

func TestAuthor(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"chinese colon", "作者：张三<br>\n正文", "张三", true},
		{"ascii colon", "作者: 李四 <br />", "李四", true},
		{"english", "Author: Jane Doe<br/>", "Jane Doe", true},
		{"lower case english", "author：某甲<BR>", "某甲", true},
		{"no break", "作者：王五\n正文", "", false},
		{"absent", "正文<br>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Author(tt.body)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Author(%q) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"chinese", "2019年3月7日 发表<br>", "2019-03-07", true},
		{"chinese spaced", "2019 年 12 月 1 日", "2019-12-01", true},
		{"dashes", "日期：2020-1-15<br>", "2020-01-15", true},
		{"slashes", "2021/06/30", "2021-06-30", true},
		{"full width", "２０１８年５月４日", "2018-05-04", true},
		{"edit note skipped", "[本帖最后由 甲 于 2020-3-4 12:00 编辑]", "", false},
		{"invalid month", "2020-13-01", "", false},
		{"day past month end", "2021年2月31日", "", false},
		{"leap day", "2020年2月29日", "2020-02-29", true},
		{"not a leap year", "2021-2-29", "", false},
		{"later valid date used", "2021年2月31日 改于 2021年3月2日", "2021-03-02", true},
		{"absent", "没有日期", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.body)
			if ok != tt.ok {
				t.Fatalf("Date(%q) ok = %v, want %v", tt.body, ok, tt.ok)
			}
			if ok && got.Format(time.DateOnly) != tt.want {
				t.Errorf("Date(%q) = %s, want %s", tt.body, got.Format(time.DateOnly), tt.want)
			}
		})
	}
}

func TestPublisher(t *testing.T) {
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{"首发于：第一会所<br />", "第一会所", true},
		{"首發於 SIS001<br>", "SIS001", true},
		{"发表于: 某论坛\n", "某论坛", true},
		{"First published at example.com<br>", "example.com", true},
		{"没有出处", "", false},
	}

	for _, tt := range tests {
		got, ok := Publisher(tt.body)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Publisher(%q) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractorFirstMatchWins(t *testing.T) {
	e := NewExtractor(nil)

	if found := e.Scan("作者：张三<br>正文"); len(found) != 1 || found[0] != "author" {
		t.Errorf("first scan found %v", found)
	}
	e.Scan("作者：李四<br>首发于：sis001.com<br>2020-05-06")

	got := e.Result()
	if got.Author == nil || *got.Author != "张三" {
		t.Errorf("Author = %v, want 张三", got.Author)
	}
	if got.Publisher == nil || *got.Publisher != "第一会所" {
		t.Errorf("Publisher = %v, want alias display name", got.Publisher)
	}
	if got.Date == nil || got.Date.Format(time.DateOnly) != "2020-05-06" {
		t.Errorf("Date = %v", got.Date)
	}
	if !e.Complete() {
		t.Error("extractor should be complete")
	}
}

func TestExtractorAbsentFields(t *testing.T) {
	e := NewExtractor(map[string]string{})
	e.Scan("只有正文")

	got := e.Result()
	if got.Author != nil || got.Date != nil || got.Publisher != nil {
		t.Errorf("Result = %+v, want all nil", got)
	}
	if e.Complete() {
		t.Error("extractor should not be complete")
	}
}

func TestExtractorAliasChoice(t *testing.T) {
	aliases := map[string]string{
		"sis":        "短名",
		"sis001":     "第一会所",
		"sis001.com": "第一会所网站",
		"bbs":        "论坛",
	}

	tests := []struct {
		publisher string
		want      string
	}{
		{"sis001", "第一会所"},
		{"SIS001.COM", "第一会所网站"},
		{"www.sis001.com/forum", "第一会所网站"},
		{"sis001 bbs", "第一会所"},
		{"别处", "别处"},
	}

	for _, tt := range tests {
		for range 20 {
			e := NewExtractor(aliases)
			e.Scan("首发于：" + tt.publisher + "<br>")
			got := e.Result().Publisher
			if got == nil || *got != tt.want {
				t.Fatalf("publisher %q = %v, want %q", tt.publisher, got, tt.want)
			}
		}
	}
}
