package service

import (
	"context"
	"sort"

	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
)

// FluencyScorer 为上文与续写的衔接流畅度打分，分数只在同一篇文章内比较
type FluencyScorer interface {
	Score(ctx context.Context, prefix, continuation string) (float64, error)
}

// Continuation 某个模型为一篇文章生成的续写
type Continuation struct {
	Model string
	Text  string
}

// RankByFluency 按流畅度从高到低排序，同分保持原有顺序。少于两个候选时不打分
func RankByFluency(ctx context.Context, scorer FluencyScorer, article *model.Article, pool []Continuation) ([]Continuation, error) {
	ranked := make([]Continuation, len(pool))
	copy(ranked, pool)
	if len(ranked) < 2 {
		return ranked, nil
	}

	prefix := article.Context()
	scores := make(map[string]float64, len(ranked))
	for _, c := range ranked {
		score, err := scorer.Score(ctx, prefix, c.Text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s 续写流畅度打分失败", c.Model)
		}
		scores[c.Model] = score
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Model] > scores[ranked[j].Model]
	})
	return ranked, nil
}
