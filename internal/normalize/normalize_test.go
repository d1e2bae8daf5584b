package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "forum lines",
			raw:  "第一行<br />\n第二行<br />\n<br />\n第三行<br />\n",
			want: "<p>第一行第二行</p><p>第三行</p>",
		},
		{
			name: "title banner and back link",
			raw:  "<div class=\"title\">第一章</div>\n正文<br />\n<a href=\"#top\">Back</a>",
			want: "<p>正文</p>",
		},
		{
			name: "moderator edit note",
			raw:  "[i=s] 本帖最后由 某人 于 2020-3-4 12:00 编辑 [/i]<br />\n<br />\n故事开始",
			want: "<p>故事开始</p>",
		},
		{
			name: "non breaking spaces",
			raw:  "&nbsp;&nbsp;开头 文字",
			want: "<p>开头 文字</p>",
		},
		{
			name: "paragraph elements",
			raw:  "<p>甲</p><p> 乙 </p><p></p>",
			want: "<p>甲</p><p>乙</p>",
		},
		{
			name: "crlf blank lines",
			raw:  "甲\r\n\r\n\r\n乙\r\n丙",
			want: "<p>甲</p><p>乙丙</p>",
		},
		{
			name: "escaped text survives",
			raw:  "a &lt;b&gt; &amp; c",
			want: "<p>a &lt;b&gt; &amp; c</p>",
		},
		{
			name: "nested markup",
			raw:  "<font color=\"red\"><strong>重点</strong></font>内容",
			want: "<p>重点内容</p>",
		},
		{
			name: "empty",
			raw:  "",
			want: "<p></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"纯文本",
		"<p>甲</p><p>乙</p>",
		"第一行<br />\n<br />\n第二节<br />\n<br />\n正文",
		"<div class=\"title\">标题</div>\n  前后有空格  \n\n\n<b>粗体</b>&nbsp;",
		"a &lt;b&gt; &amp; c\r\n\r\nd",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestRemoveEditNotes(t *testing.T) {
	in := "前[本帖最後由 甲 於 2019-1-1 編輯]后"
	if got := RemoveEditNotes(in); got != "前后" {
		t.Errorf("RemoveEditNotes(%q) = %q", in, got)
	}
}
