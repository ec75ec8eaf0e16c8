package service

import (
	"context"
	"sync"
	"time"

	"news-hallucination/pkg/model"
	"news-hallucination/pkg/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 机器标注结果的子目录
const (
	SubdirKeywordHallucinated = "keyword_hallucinated"
	SubdirUnhallucinated      = "unhallucinated"
)

// KeywordJudge 判断候选续写中不合理的关键词
type KeywordJudge interface {
	JudgeKeywords(ctx context.Context, keywords []string, candidate *model.CandidateRecord) (map[string]string, error)
}

// Annotator 用判断模型对候选续写做机器标注，按结果分别写入两个目录
type Annotator struct {
	Judge          KeywordJudge
	Hallucinated   *store.JSONStore
	Unhallucinated *store.JSONStore
	Concurrency    int
}

// AnnotationReport 子目录 -> 文章类型 -> 新写入数量
type AnnotationReport struct {
	Counts  map[string]map[string]int
	Skipped int
	Failed  int
}

func (r *AnnotationReport) add(subdir, typ string) {
	if r.Counts == nil {
		r.Counts = make(map[string]map[string]int)
	}
	if r.Counts[subdir] == nil {
		r.Counts[subdir] = make(map[string]int)
	}
	r.Counts[subdir][typ]++
}

func (a *Annotator) exists(filename string) bool {
	return a.Hallucinated.Exists(filename) || a.Unhallucinated.Exists(filename)
}

// Annotate 标注单条候选，返回写入的子目录；已标注过时返回空字符串
func (a *Annotator) Annotate(ctx context.Context, candidate *model.CandidateRecord) (string, error) {
	if a.exists(candidate.Filename) {
		return "", nil
	}
	verdicts, err := a.Judge.JudgeKeywords(ctx, candidate.Keywords, candidate)
	if err != nil {
		return "", err
	}

	subdir, target, obj := SubdirUnhallucinated, a.Unhallucinated, any(candidate)
	if len(verdicts) > 0 {
		subdir, target = SubdirKeywordHallucinated, a.Hallucinated
		obj = &model.JudgmentRecord{CandidateRecord: *candidate, HallucinatedKeywords: verdicts}
	}
	written, err := target.WriteOnce(candidate.Filename, obj)
	if err != nil || !written {
		return "", err
	}
	return subdir, nil
}

func (a *Annotator) Run(ctx context.Context, candidates []*model.CandidateRecord) (AnnotationReport, error) {
	var (
		mu     sync.Mutex
		report AnnotationReport
	)
	startTime := time.Now()

	limit := a.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			subdir, err := a.Annotate(ctx, cand)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				zap.S().Warnf("标注 %s 失败: %v", cand.Filename, err)
				report.Failed++
			case subdir == "":
				report.Skipped++
			default:
				report.add(subdir, cand.Type)
			}
			return nil
		})
	}
	_ = g.Wait()

	zap.S().Infof("机器标注完成: 幻觉 %v, 无幻觉 %v, 已存在 %d 篇, 失败 %d 篇, 耗时 %s",
		report.Counts[SubdirKeywordHallucinated], report.Counts[SubdirUnhallucinated],
		report.Skipped, report.Failed, time.Since(startTime))
	return report, ctx.Err()
}
