package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-hallucination/pkg/corpus"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/sentence"
	"news-hallucination/pkg/store"

	"go.uber.org/zap"
)

// 正文长度范围（字符数）
const (
	MinContentLength = 630
	MaxContentLength = 870
)

// 丢弃原因
const (
	DropCategory = "分类不在范围内"
	DropMissing  = "关键字段为空"
	DropLength   = "正文长度不合适"
	DropOpening  = "找不到合适的开头"
	DropRevision = "改稿或更新稿"
)

var typeCategories = []struct {
	typ        string
	categories []string
}{
	{model.TypeDocument, []string{"政治", "法律", "军事", "教育"}},
	{model.TypeNumber, []string{"体育", "经济", "市场"}},
	{model.TypeKnowledge, []string{"科学", "技术", "医疗", "卫生"}},
	{model.TypeGeneral, []string{"社会", "文化", "艺术", "娱乐", "天气", "环保", "灾害", "事故"}},
}

var revisionMarkers = []string{"改稿", "（更新）", "（请以此为准）"}

// AssignType 分类名包含关键字即归入对应类型，按 doc、num、kno、gen 顺序匹配；都不匹配返回空
func AssignType(category string) string {
	for _, tc := range typeCategories {
		for _, c := range tc.categories {
			if strings.Contains(category, c) {
				return tc.typ
			}
		}
	}
	return ""
}

// Inspect 判断原始新闻是否可用，不可用时返回丢弃原因
func Inspect(news *model.RawNews) (typ, reason string) {
	typ = AssignType(news.NewsCategoryName)
	if typ == "" {
		return "", DropCategory
	}
	if news.HeadLine == "" || news.BroadcastDate == "" || news.Content == "" {
		return "", DropMissing
	}
	if n := sentence.Len(news.Content); n < MinContentLength || n > MaxContentLength {
		return "", DropLength
	}
	if _, _, ok := sentence.Beginning(news.Content); !ok {
		return "", DropOpening
	}
	for _, m := range revisionMarkers {
		if strings.Contains(news.HeadLine, m) {
			return "", DropRevision
		}
	}
	return typ, ""
}

// PreprocessReport 预处理统计
type PreprocessReport struct {
	Types   map[string]int // 每种类型的合格文章数
	Dropped map[string]int // 丢弃原因 -> 数量
	Written int
}

// Preprocessor 把原始语料切分为开头与剩余部分，每篇文章写一个文件，文件名为 <类型>_<序号>.json
type Preprocessor struct {
	store     *store.JSONStore
	stripHTML bool
}

// NewPreprocessor stripHTML 为 true 时先清洗正文中的 HTML 标签与实体
func NewPreprocessor(s *store.JSONStore, stripHTML bool) *Preprocessor {
	return &Preprocessor{store: s, stripHTML: stripHTML}
}

// Process 序号按语料顺序在每种类型内递增，重复运行得到相同文件名
func (p *Preprocessor) Process(ctx context.Context, src corpus.Source) (PreprocessReport, error) {
	report := PreprocessReport{
		Types:   map[string]int{model.TypeDocument: 0, model.TypeNumber: 0, model.TypeKnowledge: 0, model.TypeGeneral: 0},
		Dropped: make(map[string]int),
	}
	startTime := time.Now()

	err := src.Walk(ctx, func(news *model.RawNews) error {
		if p.stripHTML {
			news.Content = CleanContent(news.Content)
			news.HeadLine = CleanContent(news.HeadLine)
		}
		typ, reason := Inspect(news)
		if reason != "" {
			report.Dropped[reason]++
			return nil
		}
		report.Types[typ]++
		article := NewArticle(news, typ, report.Types[typ])
		written, err := p.store.WriteOnce(article.Filename, article)
		if err != nil {
			return err
		}
		if written {
			report.Written++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	zap.S().Infof("预处理 %s 完成: 合格 %v, 丢弃 %v, 新写入 %d 篇, 耗时 %s",
		src.Name(), report.Types, report.Dropped, report.Written, time.Since(startTime))
	return report, nil
}

// NewArticle 由合格的原始新闻构建文章，文本字段统一转为半角
func NewArticle(news *model.RawNews, typ string, no int) *model.Article {
	beginning, remainder, _ := sentence.Beginning(news.Content)
	return &model.Article{
		Filename:      fmt.Sprintf("%s_%06d.json", typ, no),
		HeadLine:      sentence.ToHalfWidth(news.HeadLine),
		BroadcastDate: sentence.ToHalfWidth(news.BroadcastDate),
		Type:          typ,
		NewsBeginning: sentence.ToHalfWidth(beginning),
		NewsRemainder: sentence.ToHalfWidth(remainder),
	}
}
