package service

import (
	"context"
	"strings"
)

// KeywordExtractor 抽取句子中的关键词
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, sentence string) ([]string, error)
}

// PrecisionResult 续写关键词在参考文本中的命中情况
type PrecisionResult struct {
	Precision        float64
	AppearedKeywords []string
	Keywords         []string
}

// PrecisionScorer 计算关键词准确率：出现在参考文本中的关键词占全部关键词的比例
type PrecisionScorer struct {
	Extractor KeywordExtractor
}

func NewPrecisionScorer(extractor KeywordExtractor) *PrecisionScorer {
	return &PrecisionScorer{Extractor: extractor}
}

// Score 严格按子串匹配，不做同义或模糊匹配。没有关键词时准确率为 0
func (p *PrecisionScorer) Score(ctx context.Context, continuation, reference string) (PrecisionResult, error) {
	raw, err := p.Extractor.ExtractKeywords(ctx, continuation)
	if err != nil {
		return PrecisionResult{}, err
	}
	keywords := cleanKeywords(raw, continuation)
	result := PrecisionResult{
		AppearedKeywords: make([]string, 0, len(keywords)),
		Keywords:         keywords,
	}
	if len(keywords) == 0 {
		return result, nil
	}
	for _, kw := range keywords {
		if strings.Contains(reference, kw) {
			result.AppearedKeywords = append(result.AppearedKeywords, kw)
		}
	}
	result.Precision = float64(len(result.AppearedKeywords)) / float64(len(keywords))
	return result, nil
}

// cleanKeywords 去空白、去重，并丢弃不在续写中出现的关键词（抽取模型自己编造的词）
func cleanKeywords(raw []string, continuation string) []string {
	keywords := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw == "" || !strings.Contains(continuation, kw) {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}
