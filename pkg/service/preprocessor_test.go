package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"news-hallucination/pkg/corpus"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/sentence"
	"news-hallucination/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sentence40 = strings.Repeat("字", 39) + "。"
	validBody  = sentence40 + sentence40 + strings.Repeat("文", 600) + "。"
)

func TestAssignType(t *testing.T) {
	cases := map[string]string{
		"时政-政治": model.TypeDocument,
		"军事":    model.TypeDocument,
		"经济-市场": model.TypeNumber,
		"体育":    model.TypeNumber,
		"科学技术":  model.TypeKnowledge,
		"医疗卫生":  model.TypeKnowledge,
		"社会":    model.TypeGeneral,
		"灾害事故":  model.TypeGeneral,
		"教育与文化": model.TypeDocument,
		"国际":    "",
		"":      "",
	}
	for category, want := range cases {
		assert.Equal(t, want, AssignType(category), category)
	}
}

func TestInspect(t *testing.T) {
	ok := model.RawNews{HeadLine: "标题", BroadcastDate: "2018-02-27", Content: validBody, NewsCategoryName: "经济"}
	typ, reason := Inspect(&ok)
	assert.Equal(t, model.TypeNumber, typ)
	assert.Empty(t, reason)

	mutate := func(f func(n *model.RawNews)) *model.RawNews {
		n := ok
		f(&n)
		return &n
	}
	cases := []struct {
		news   *model.RawNews
		reason string
	}{
		{mutate(func(n *model.RawNews) { n.NewsCategoryName = "国际" }), DropCategory},
		{mutate(func(n *model.RawNews) { n.BroadcastDate = "" }), DropMissing},
		{mutate(func(n *model.RawNews) { n.Content = sentence40 + sentence40 + "短。" }), DropLength},
		{mutate(func(n *model.RawNews) { n.Content = validBody + strings.Repeat("长", 300) }), DropLength},
		{mutate(func(n *model.RawNews) { n.Content = strings.Repeat("无", 700) + "。" }), DropOpening},
		{mutate(func(n *model.RawNews) { n.HeadLine = "（更新）标题" }), DropRevision},
		{mutate(func(n *model.RawNews) { n.HeadLine = "标题（请以此为准）" }), DropRevision},
	}
	for _, c := range cases {
		_, reason := Inspect(c.news)
		assert.Equal(t, c.reason, reason, c.news.HeadLine)
	}
}

func TestPreprocessorProcess(t *testing.T) {
	rawDir := t.TempDir()
	raw := []map[string]any{
		{"headLine": "ＡＢＣ新闻", "broadcastDate": "2018-02-27 10:31:05", "content": validBody, "newsCategoryName": "体育"},
		{"headLine": "无效", "broadcastDate": "2018-02-27", "content": "太短。", "newsCategoryName": "体育"},
		{"headLine": "第二篇", "broadcastDate": "2018-02-28", "content": validBody, "newsCategoryName": "经济"},
		{"headLine": "文档", "broadcastDate": "2018-03-01", "content": validBody, "newsCategoryName": "法律"},
		{"headLine": "国际新闻", "broadcastDate": "2018-03-01", "content": validBody, "newsCategoryName": "国际"},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "2018.json"), data, 0644))

	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	p := NewPreprocessor(s, false)

	report, err := p.Process(context.Background(), corpus.NewFileSource(rawDir))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{model.TypeDocument: 1, model.TypeNumber: 2, model.TypeKnowledge: 0, model.TypeGeneral: 0}, report.Types)
	assert.Equal(t, map[string]int{DropLength: 1, DropCategory: 1}, report.Dropped)
	assert.Equal(t, 3, report.Written)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_000001.json", "num_000001.json", "num_000002.json"}, names)

	var a model.Article
	require.NoError(t, s.Read("num_000001.json", &a))
	assert.Equal(t, "ABC新闻", a.HeadLine)
	assert.Equal(t, model.TypeNumber, a.Type)
	assert.Equal(t, sentence40+sentence40, a.NewsBeginning)
	assert.Equal(t, validBody, a.NewsBeginning+a.NewsRemainder)
	assert.Equal(t, 80, sentence.Len(a.NewsBeginning))

	// 重复运行文件名不变，也不覆盖
	report, err = p.Process(context.Background(), corpus.NewFileSource(rawDir))
	require.NoError(t, err)
	assert.Zero(t, report.Written)
	assert.Equal(t, 2, report.Types[model.TypeNumber])
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "纯文本。", CleanContent("纯文本。"))
	assert.Equal(t, "第一段。\n第二段&lt;", CleanContent("<p>第一段。</p>\n\n<p>第二段&amp;lt;</p>"))
	assert.Equal(t, "甲<乙>丙", CleanContent("甲&lt;乙&gt;丙"))
	assert.Equal(t, "换行\n之后", CleanContent("换行<br/>之后"))
	assert.Equal(t, "加粗文字", CleanContent(`<b class="x">加粗</b>文字`))
}
