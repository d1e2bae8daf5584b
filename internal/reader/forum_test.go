package reader

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanlinsun/bookeditor/internal/book"
)

func mustDoc(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func parseForum(t *testing.T, s string) *book.Book {
	t.Helper()
	b, err := (&ForumFormat{}).Parse(mustDoc(t, s), Options{DefaultTitle: "默认"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func chapterIDs(chapters []*book.Chapter) []string {
	var out []string
	for _, c := range chapters {
		out = append(out, c.ID)
	}
	return out
}

func TestForumOrdersByNumeral(t *testing.T) {
	b := parseForum(t, `<html><body><h1>测试书</h1>
<div class="toc"><table>
<tr><td><a href="#c2">测试书 第二章 结束</a></td></tr>
<tr><td><a href="#c0">测试书 序</a></td></tr>
<tr><td><a href="#c1">测试书 第一章 开始</a></td></tr>
</table></div>
<div id="c2">结局</div>
<div id="c0">序言</div>
<div id="c1">开端</div>
</body></html>`)

	if b.Title != "测试书" {
		t.Errorf("Title = %q", b.Title)
	}
	chapters := b.Chapters()
	if got := strings.Join(chapterIDs(chapters), ","); got != "c0,c1,c2" {
		t.Fatalf("order = %s, want c0,c1,c2", got)
	}
	for i, c := range chapters {
		if c.Order != i {
			t.Errorf("%s Order = %d, want %d", c.ID, c.Order, i)
		}
	}
	if chapters[1].Title != "第一章 开始" {
		t.Errorf("title = %q, want book title removed", chapters[1].Title)
	}
	if chapters[2].Content != "<p>结局</p>" {
		t.Errorf("content = %q", chapters[2].Content)
	}
}

func TestForumSynthesizesEmbeddedChapter(t *testing.T) {
	long := strings.Repeat("字", 250)
	b := parseForum(t, `<h1>书</h1>
<div class="toc"><table>
<tr><td><a href="#p1">第一章</a></td></tr>
<tr><td><a href="#p2">第二章</a></td></tr>
</table></div>
<div id="p1">前文

第二节

`+long+`</div>
<div id="p2">后文</div>`)

	p1, ok := b.Get("p1")
	if !ok {
		t.Fatal("p1 missing")
	}
	if p1.Content != "<p>前文</p>" {
		t.Errorf("p1 content = %q, want truncated before heading", p1.Content)
	}

	child, ok := b.Get("p11")
	if !ok {
		t.Fatalf("synthesized chapter missing: %v", chapterIDs(b.Chapters()))
	}
	if child.Title != "第二节" || child.Indent != 1 || child.Order != 2 {
		t.Errorf("child = %+v", child)
	}
	if child.Parent == nil || *child.Parent != "p1" {
		t.Errorf("child parent = %v, want p1", child.Parent)
	}
	if child.Ignore {
		t.Error("long child should be visible")
	}
	if got := strings.Join(chapterIDs(b.Chapters()), ","); got != "p1,p2,p11" {
		t.Errorf("order = %s, want p1,p2,p11", got)
	}
}

func TestForumIgnoresShortNestedChapters(t *testing.T) {
	b := parseForum(t, `<div class="toc"><table>
<tr><td><a href="#a">第一章</a></td></tr>
<tr><td><span class="indent"></span><a href="#b">第一节</a></td></tr>
<tr><td><span class="indent5"></span><a href="#c">第二节</a></td></tr>
</table></div>
<div id="a">正文</div>
<div id="b">短</div>
<div id="c">`+strings.Repeat("长", 300)+`</div>`)

	if b.Title != "默认" {
		t.Errorf("Title = %q, want default", b.Title)
	}
	if got := strings.Join(chapterIDs(b.Ignored()), ","); got != "b" {
		t.Errorf("ignored = %s, want b", got)
	}
	c, _ := b.Get("c")
	if c.Indent != 2 {
		t.Errorf("indent = %d, want clamped to 2", c.Indent)
	}
	bch, _ := b.Get("b")
	if bch.Parent == nil || *bch.Parent != "a" {
		t.Errorf("parent = %v, want a", bch.Parent)
	}
	if c.Parent != nil {
		t.Errorf("parent = %v, want none after a nested chapter", *c.Parent)
	}
}

func TestForumMetadata(t *testing.T) {
	b := parseForum(t, `<div class="toc"><table>
<tr><td><a href="#a">第一章</a></td></tr>
<tr><td><a href="#b">第二章</a></td></tr>
</table></div>
<div id="a">作者：张三<br>
2019年3月7日<br>
正文</div>
<div id="b">作者：李四<br>
首发于：sis001<br>
正文</div>`)

	if b.Author == nil || *b.Author != "张三" {
		t.Errorf("Author = %v, want 张三", b.Author)
	}
	if b.Date == nil || b.Date.Format(time.DateOnly) != "2019-03-07" {
		t.Errorf("Date = %v", b.Date)
	}
	if b.Publisher == nil || *b.Publisher != "第一会所" {
		t.Errorf("Publisher = %v", b.Publisher)
	}
}

func TestForumMissingBodyAndDuplicateRow(t *testing.T) {
	b := parseForum(t, `<div class="toc"><table>
<tr><td><a href="#a">第一章</a></td></tr>
<tr><td><a href="#a">第一章 重复</a></td></tr>
<tr><td><a href="#gone">第二章</a></td></tr>
</table></div>
<div id="a">正文</div>`)

	if got := strings.Join(chapterIDs(b.Chapters()), ","); got != "a,gone" {
		t.Errorf("chapters = %s, want a,gone", got)
	}
	gone, _ := b.Get("gone")
	if gone.Content != "<p></p>" {
		t.Errorf("content = %q, want empty paragraph", gone.Content)
	}
}

func TestForumNoTOC(t *testing.T) {
	_, err := (&ForumFormat{}).Parse(mustDoc(t, `<p>no toc</p>`), Options{})
	if err != ErrNoTOC {
		t.Errorf("err = %v, want ErrNoTOC", err)
	}
}
