package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"news-hallucination/config"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/store"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	textA = "王雷表示，本届博览会总展位数达460万，是全球最大的同类展会。"
	textB = "王雷说，博览会秘书处已与东盟十国达成多项签约项目，合作前景广阔。"
	textC = "王雷介绍，本届博览会总展位数4600个，参展客商众多。"
	textD = "据悉，王雷在博览会期间会见了来自二十多个国家的代表团成员。"
)

func newArticle(filename string) *model.Article {
	return &model.Article{
		Filename:      filename,
		HeadLine:      "第12届中国—东盟博览会闭幕",
		BroadcastDate: "2015-09-21 17:23:12",
		Type:          model.TypeNumber,
		NewsBeginning: "新华社南宁9月21日电，第12届中国—东盟博览会21日在广西南宁闭幕。",
		NewsRemainder: "王雷介绍，本届博览会总展位数4600个，参展客商6.5万人。",
	}
}

type selectorFixture struct {
	selector   *CandidateSelector
	generators []*fakeGenerator
	scorer     *fakeScorer
	store      *store.JSONStore
}

func newSelectorFixture(t *testing.T) *selectorFixture {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)

	gens := []*fakeGenerator{
		{name: "A", text: textA},
		{name: "B", text: textB},
		{name: "C", text: textC},
		{name: "D", text: textD},
		{name: "Short", text: "太短了。"},
		{name: "Broken", err: errors.New("connection reset")},
	}
	scorer := &fakeScorer{scores: map[string]float64{textA: 0.9, textB: 0.8, textC: 0.7, textD: 0.1}}
	extractor := &fakeExtractor{keywords: map[string][]string{
		// 3/5
		textA: {"王雷", "博览会", "总展位数", "460万", "全球最大"},
		// 2/5
		textB: {"王雷", "博览会", "秘书处", "东盟十国", "签约项目"},
		// 3/3
		textC: {"王雷", "博览会", "4600个"},
		// 2/10，但流畅度排第四
		textD: {"王雷", "博览会", "二十多个国家", "代表团", "会见", "据悉", "期间", "成员", "来自", "国家"},
	}}

	generators := make([]Generator, 0, len(gens))
	for _, g := range gens {
		generators = append(generators, g)
	}
	opts := config.NewDefaultPipelineConfig()
	opts.Shuffle = false
	return &selectorFixture{
		selector: &CandidateSelector{
			Generators: generators,
			Scorer:     scorer,
			Precision:  NewPrecisionScorer(extractor),
			Store:      s,
			Options:    opts,
		},
		generators: gens,
		scorer:     scorer,
		store:      s,
	}
}

func TestSelectPicksLeastPreciseAmongTopThree(t *testing.T) {
	f := newSelectorFixture(t)
	article := newArticle("num_000001.json")

	record, err := f.selector.Select(context.Background(), article)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "B", record.GeneratedBy)
	assert.Equal(t, textB, record.CandidateHallucinatedContinuation)
	assert.InDelta(t, 0.4, record.KeywordPrecision, 1e-9)
	assert.Equal(t, []string{"王雷", "博览会"}, record.AppearedKeywords)
	assert.Equal(t, []string{"王雷", "博览会", "秘书处", "东盟十国", "签约项目"}, record.Keywords)
	assert.Equal(t, *article, record.Article)

	// 只有长度合格的四个续写参与打分
	assert.Equal(t, 4, f.scorer.calls)

	var saved model.CandidateRecord
	require.NoError(t, f.store.Read(article.Filename, &saved))
	assert.Equal(t, *record, saved)
}

func TestSelectIsWriteOnce(t *testing.T) {
	f := newSelectorFixture(t)
	article := newArticle("num_000001.json")

	first, err := f.selector.Select(context.Background(), article)
	require.NoError(t, err)
	require.NotNil(t, first)

	f.generators[1].text = textA
	second, err := f.selector.Select(context.Background(), article)
	assert.ErrorIs(t, err, ErrCandidateExists)
	assert.Nil(t, second)
	for _, g := range f.generators {
		assert.Equal(t, 1, g.calls, g.name)
	}

	var saved model.CandidateRecord
	require.NoError(t, f.store.Read(article.Filename, &saved))
	assert.Equal(t, "B", saved.GeneratedBy)
}

func TestSelectWithoutUsableContinuation(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Generators = []Generator{
		&fakeGenerator{name: "Short", text: "太短了。"},
		&fakeGenerator{name: "Broken", err: errors.New("timeout")},
	}
	record, err := f.selector.Select(context.Background(), newArticle("gen_000001.json"))
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Zero(t, f.scorer.calls)
	assert.False(t, f.store.Exists("gen_000001.json"))
}

func TestSelectSingleContinuationSkipsRanking(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Generators = []Generator{&fakeGenerator{name: "B", text: textB}}

	record, err := f.selector.Select(context.Background(), newArticle("num_000002.json"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "B", record.GeneratedBy)
	assert.Zero(t, f.scorer.calls)
}

func TestSelectDropsExtremePrecisions(t *testing.T) {
	f := newSelectorFixture(t)
	extractor := f.selector.Precision.Extractor.(*fakeExtractor)
	// A 只有一个出现的关键词，B 没有关键词出现，C 全部出现
	extractor.keywords[textA] = []string{"王雷", "460万", "全球最大"}
	extractor.keywords[textB] = []string{"秘书处", "东盟十国"}

	record, err := f.selector.Select(context.Background(), newArticle("num_000003.json"))
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.False(t, f.store.Exists("num_000003.json"))
}

func TestSelectTieKeepsFluencyOrder(t *testing.T) {
	f := newSelectorFixture(t)
	extractor := f.selector.Precision.Extractor.(*fakeExtractor)
	extractor.keywords[textA] = []string{"王雷", "博览会", "460万", "全球最大", "同类展会"}

	record, err := f.selector.Select(context.Background(), newArticle("num_000004.json"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "A", record.GeneratedBy)
	assert.InDelta(t, 0.4, record.KeywordPrecision, 1e-9)
}

func TestSelectMinimalityOverSurvivors(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Options.TopK = 4

	record, err := f.selector.Select(context.Background(), newArticle("num_000005.json"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "D", record.GeneratedBy)
	assert.InDelta(t, 0.2, record.KeywordPrecision, 1e-9)
}

func TestSelectArticleReferenceText(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Options.ReferenceText = config.ReferenceArticle
	f.selector.Generators = []Generator{&fakeGenerator{name: "B", text: textB}}
	extractor := f.selector.Precision.Extractor.(*fakeExtractor)
	// 秘书处在文章中没有出现
	extractor.keywords[textB] = []string{"王雷", "博览会", "秘书处"}

	article := newArticle("num_000006.json")
	article.NewsRemainder = "王雷介绍了本届展会情况。"
	record, err := f.selector.Select(context.Background(), article)
	require.NoError(t, err)
	require.NotNil(t, record)
	// 博览会只在标题和开头中出现，也算命中
	assert.Equal(t, []string{"王雷", "博览会"}, record.AppearedKeywords)

	f.selector.Options.ReferenceText = config.ReferenceRemainder
	record, err = f.selector.Select(context.Background(), newArticle("num_000007.json"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"王雷", "博览会"}, record.AppearedKeywords)

	article = newArticle("num_000008.json")
	article.NewsRemainder = "王雷介绍了本届展会情况。"
	record, err = f.selector.Select(context.Background(), article)
	require.NoError(t, err)
	assert.Nil(t, record, "只命中一个关键词")
}

func TestSelectPrecisionFailureIsReturned(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Precision = NewPrecisionScorer(&fakeExtractor{err: errors.New("quota exceeded")})

	_, err := f.selector.Select(context.Background(), newArticle("num_000009.json"))
	assert.ErrorContains(t, err, "quota exceeded")
	assert.False(t, f.store.Exists("num_000009.json"))
}

func TestRunReportsEveryArticle(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Options.Shuffle = true
	f.selector.Options.Seed = 42
	f.selector.Options.Concurrency = 4

	articles := make([]*model.Article, 0, 10)
	for i := 1; i <= 10; i++ {
		articles = append(articles, newArticle(fmt.Sprintf("num_%06d.json", i)))
	}
	_, err := f.store.WriteOnce(articles[0].Filename, map[string]string{"filename": articles[0].Filename})
	require.NoError(t, err)

	report, err := f.selector.Run(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, RunReport{Written: 9, Skipped: 1}, report)
	assert.Equal(t, "num_000001.json", articles[0].Filename, "不打乱调用方的切片")

	names, err := f.store.List()
	require.NoError(t, err)
	assert.Len(t, names, 10)

	report, err = f.selector.Run(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, RunReport{Skipped: 10}, report)
}

func TestRunCountsFailures(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Precision = NewPrecisionScorer(&fakeExtractor{err: errors.New("quota exceeded")})

	report, err := f.selector.Run(context.Background(), []*model.Article{newArticle("num_000001.json"), newArticle("num_000002.json")})
	require.NoError(t, err)
	assert.Equal(t, RunReport{Failed: 2}, report)
}

func TestSelectContinuationLengthBounds(t *testing.T) {
	chars := func(n int) string { return strings.Repeat("字", n) }
	cases := []struct {
		name    string
		lengths []int
		want    []string
	}{
		{name: "both bounds inclusive", lengths: []int{19, 20, 70, 71}, want: []string{chars(20), chars(70)}},
		{name: "only lower bound", lengths: []int{19, 20}, want: []string{chars(20)}},
		{name: "only upper bound", lengths: []int{70, 71}, want: []string{chars(70)}},
		{name: "all outside", lengths: []int{19, 71}, want: []string{}},
		// 24 个汉字为 72 字节，按字节计数会误删
		{name: "counted in characters", lengths: []int{23, 24}, want: []string{chars(23), chars(24)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := store.NewJSONStore(t.TempDir())
			require.NoError(t, err)
			scores := make(map[string]float64)
			generators := make([]Generator, 0, len(c.lengths))
			for i, n := range c.lengths {
				scores[chars(n)] = float64(len(c.lengths) - i)
				generators = append(generators, &fakeGenerator{name: fmt.Sprintf("len%d", n), text: chars(n)})
			}
			extractor := &fakeExtractor{}
			opts := config.NewDefaultPipelineConfig()
			opts.Shuffle = false
			selector := &CandidateSelector{
				Generators: generators,
				Scorer:     &fakeScorer{scores: scores},
				Precision:  NewPrecisionScorer(extractor),
				Store:      s,
				Options:    opts,
			}

			record, err := selector.Select(context.Background(), newArticle("gen_000001.json"))
			require.NoError(t, err)
			// 没有关键词，准确率为 0，全部丢弃
			assert.Nil(t, record)
			assert.Equal(t, c.want, extractor.seenTexts())
		})
	}
}

// writingGenerator 续写期间由其他写入者抢先写出同名文件
type writingGenerator struct {
	fakeGenerator
	store *store.JSONStore
}

func (g *writingGenerator) Continue(ctx context.Context, article *model.Article) (string, error) {
	if _, err := g.store.WriteOnce(article.Filename, map[string]string{"filename": article.Filename}); err != nil {
		return "", err
	}
	return g.fakeGenerator.Continue(ctx, article)
}

func TestSelectLosesWriteRace(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Generators[0] = &writingGenerator{fakeGenerator: fakeGenerator{name: "A", text: textA}, store: f.store}

	record, err := f.selector.Select(context.Background(), newArticle("num_000001.json"))
	assert.ErrorIs(t, err, ErrCandidateExists)
	assert.Nil(t, record)

	var saved map[string]any
	require.NoError(t, f.store.Read("num_000001.json", &saved))
	assert.Equal(t, map[string]any{"filename": "num_000001.json"}, saved)

	f.selector.Generators[0] = &writingGenerator{fakeGenerator: fakeGenerator{name: "A", text: textA}, store: f.store}
	report, err := f.selector.Run(context.Background(), []*model.Article{newArticle("num_000002.json")})
	require.NoError(t, err)
	assert.Equal(t, RunReport{Skipped: 1}, report)
}

func TestRunWithoutConcurrencyConfigured(t *testing.T) {
	f := newSelectorFixture(t)
	f.selector.Options.Concurrency = 0

	done := make(chan RunReport, 1)
	go func() {
		report, err := f.selector.Run(context.Background(), []*model.Article{newArticle("num_000001.json"), newArticle("num_000002.json")})
		assert.NoError(t, err)
		done <- report
	}()
	select {
	case report := <-done:
		assert.Equal(t, RunReport{Written: 2}, report)
	case <-time.After(5 * time.Second):
		t.Fatal("Run 未在并发数为 0 时返回")
	}
}
