package service

import (
	"context"
	"sync"

	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
)

type fakeGenerator struct {
	name  string
	text  string
	err   error
	mu    sync.Mutex
	calls int
}

func (g *fakeGenerator) Name() string { return g.name }

func (g *fakeGenerator) Continue(context.Context, *model.Article) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return g.text, g.err
}

type fakeScorer struct {
	scores   map[string]float64
	mu       sync.Mutex
	calls    int
	prefixes []string
}

func (s *fakeScorer) Score(_ context.Context, prefix, continuation string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prefixes = append(s.prefixes, prefix)
	score, ok := s.scores[continuation]
	if !ok {
		return 0, errors.Errorf("未知续写: %s", continuation)
	}
	return score, nil
}

type fakeExtractor struct {
	keywords map[string][]string
	err      error
	mu       sync.Mutex
	seen     []string
}

func (e *fakeExtractor) ExtractKeywords(_ context.Context, s string) ([]string, error) {
	e.mu.Lock()
	e.seen = append(e.seen, s)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return e.keywords[s], nil
}

// seenTexts 按调用顺序返回送去抽取关键词的续写
func (e *fakeExtractor) seenTexts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.seen...)
}

type fakeJudge struct {
	verdicts map[string]map[string]string
	err      error
}

func (j *fakeJudge) JudgeKeywords(_ context.Context, _ []string, c *model.CandidateRecord) (map[string]string, error) {
	if j.err != nil {
		return nil, j.err
	}
	return j.verdicts[c.Filename], nil
}
