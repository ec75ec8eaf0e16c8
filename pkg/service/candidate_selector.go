package service

import (
	"context"
	"sync"
	"time"

	"news-hallucination/config"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/sentence"
	"news-hallucination/pkg/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Generator 续写模型
type Generator interface {
	Name() string
	Continue(ctx context.Context, article *model.Article) (string, error)
}

// CandidateSelector 多个模型续写后，选出流畅但关键词准确率最低的续写作为候选幻觉
type CandidateSelector struct {
	Generators []Generator
	Scorer     FluencyScorer
	Precision  *PrecisionScorer
	Store      *store.JSONStore
	Options    *config.PipelineConfig
}

// ErrCandidateExists 文章的候选输出已存在（包括并发写入时被其他协程抢先写入）
var ErrCandidateExists = errors.New("候选输出已存在")

type scoredContinuation struct {
	Continuation
	PrecisionResult
}

// Select 为一篇文章选出候选续写并写入。没有合格候选时返回 nil，
// 输出文件已存在时返回 ErrCandidateExists
func (s *CandidateSelector) Select(ctx context.Context, article *model.Article) (*model.CandidateRecord, error) {
	if s.Store.Exists(article.Filename) {
		return nil, ErrCandidateExists
	}

	pool := s.generate(ctx, article)
	if len(pool) == 0 {
		zap.S().Debugf("%s 没有长度合适的续写", article.Filename)
		return nil, nil
	}

	ranked, err := RankByFluency(ctx, s.Scorer, article, pool)
	if err != nil {
		return nil, err
	}
	if len(ranked) > s.Options.TopK {
		ranked = ranked[:s.Options.TopK]
	}

	reference := s.referenceText(article)
	var best *scoredContinuation
	for _, c := range ranked {
		res, err := s.Precision.Score(ctx, c.Text, reference)
		if err != nil {
			return nil, errors.Wrapf(err, "%s 计算 %s 续写的关键词准确率失败", article.Filename, c.Model)
		}
		if res.Precision == 0 || res.Precision == 1 || len(res.AppearedKeywords) < s.Options.MinAppearedKeywords {
			zap.S().Debugf("%s 丢弃 %s 续写: 准确率 %.2f, 出现关键词 %d 个", article.Filename, c.Model, res.Precision, len(res.AppearedKeywords))
			continue
		}
		// 同分时保留流畅度更高的
		if best == nil || res.Precision < best.Precision {
			best = &scoredContinuation{Continuation: c, PrecisionResult: res}
		}
	}
	if best == nil {
		return nil, nil
	}

	record := &model.CandidateRecord{
		Article:                           *article,
		CandidateHallucinatedContinuation: best.Text,
		KeywordPrecision:                  best.Precision,
		AppearedKeywords:                  best.AppearedKeywords,
		Keywords:                          best.Keywords,
		GeneratedBy:                       best.Model,
	}
	written, err := s.Store.WriteOnce(article.Filename, record)
	if err != nil {
		return nil, err
	}
	if !written {
		return nil, ErrCandidateExists
	}
	return record, nil
}

// generate 每个模型续写一次，失败的模型不进入候选，不重试
func (s *CandidateSelector) generate(ctx context.Context, article *model.Article) []Continuation {
	pool := make([]Continuation, 0, len(s.Generators))
	for _, g := range s.Generators {
		text, err := g.Continue(ctx, article)
		if err != nil {
			zap.S().Warnf("%s 续写 %s 失败: %v", g.Name(), article.Filename, err)
			continue
		}
		n := sentence.Len(text)
		if n < s.Options.MinContinuationLength || n > s.Options.MaxContinuationLength {
			continue
		}
		pool = append(pool, Continuation{Model: g.Name(), Text: text})
	}
	return pool
}

func (s *CandidateSelector) referenceText(article *model.Article) string {
	if s.Options.ReferenceText == config.ReferenceArticle {
		return article.Serialize()
	}
	return article.NewsRemainder
}

// RunReport 一次批量运行的统计
type RunReport struct {
	Written     int
	Skipped     int // 输出已存在
	NoCandidate int
	Failed      int
}

// Run 批量处理文章。单篇失败只记录日志，下次运行时会重新处理
func (s *CandidateSelector) Run(ctx context.Context, articles []*model.Article) (RunReport, error) {
	articles = append([]*model.Article(nil), articles...)
	if s.Options.Shuffle {
		store.Shuffle(articles, s.Options.Seed)
	}

	var (
		mu     sync.Mutex
		report RunReport
	)
	count := func(f func(r *RunReport)) {
		mu.Lock()
		defer mu.Unlock()
		f(&report)
		if done := report.Written + report.Skipped + report.NoCandidate + report.Failed; done%100 == 0 {
			zap.S().Infof("已处理 %d/%d 篇，写入 %d 篇", done, len(articles), report.Written)
		}
	}

	startTime := time.Now()
	limit := s.Options.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			record, err := s.Select(ctx, article)
			switch {
			case errors.Is(err, ErrCandidateExists):
				count(func(r *RunReport) { r.Skipped++ })
			case err != nil:
				zap.S().Warnf("处理 %s 失败: %v", article.Filename, err)
				count(func(r *RunReport) { r.Failed++ })
			case record == nil:
				count(func(r *RunReport) { r.NoCandidate++ })
			default:
				count(func(r *RunReport) { r.Written++ })
			}
			return nil
		})
	}
	_ = g.Wait()

	zap.S().Infof("候选生成完成: 写入 %d 篇, 已存在 %d 篇, 无候选 %d 篇, 失败 %d 篇, 耗时 %s",
		report.Written, report.Skipped, report.NoCandidate, report.Failed, time.Since(startTime))
	return report, ctx.Err()
}
