// Package llm 封装续写、关键词抽取与关键词幻觉判断所用的语言模型后端。
package llm

import (
	"context"
	"strings"

	"news-hallucination/config"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/sentence"

	"github.com/pkg/errors"
)

// ErrUnsupported 后端未开启对应能力
var ErrUnsupported = errors.New("模型不支持该能力")

// Requester 向模型发送一次请求并返回原始输出
type Requester interface {
	Request(ctx context.Context, query string) (string, error)
}

// RequesterFunc 便于用函数实现 Requester
type RequesterFunc func(ctx context.Context, query string) (string, error)

func (f RequesterFunc) Request(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// LanguageModel 流水线使用的模型能力
type LanguageModel interface {
	Name() string
	// Continue 为文章开头续写一句话
	Continue(ctx context.Context, article *model.Article) (string, error)
	// ExtractKeywords 抽取句子中的关键词
	ExtractKeywords(ctx context.Context, sentence string) ([]string, error)
	// JudgeKeywords 判断候选续写中哪些关键词不合理，返回关键词到理由的映射
	JudgeKeywords(ctx context.Context, keywords []string, candidate *model.CandidateRecord) (map[string]string, error)
}

// Model 基于 Requester 的 LanguageModel 实现，提示词风格与能力由配置决定
type Model struct {
	name       string
	prompt     string
	canExtract bool
	canJudge   bool
	requester  Requester
}

var _ LanguageModel = (*Model)(nil)

func NewModel(cfg *config.BackendConfig, requester Requester) *Model {
	return &Model{
		name:       cfg.Name,
		prompt:     cfg.Prompt,
		canExtract: cfg.Can(config.CapabilityExtract),
		canJudge:   cfg.Can(config.CapabilityJudge),
		requester:  requester,
	}
}

// New 按配置构建后端，依次套上限流与退避重试
func New(cfg *config.BackendConfig, retry *config.RetryConfig) (*Model, error) {
	var requester Requester
	switch cfg.Type {
	case config.BackendSelfHosted:
		requester = NewSelfHostedRequester(cfg)
	case config.BackendOpenAI:
		requester = NewOpenAIRequester(cfg)
	case config.BackendAnthropic:
		requester = NewAnthropicRequester(cfg)
	default:
		return nil, errors.Errorf("未知的模型类型: %s", cfg.Type)
	}
	if cfg.RateLimit > 0 {
		requester = NewRateLimitedRequester(requester, cfg.RateLimit)
	}
	if cfg.Retry && retry != nil {
		requester = NewRetryingRequester(cfg.Name, requester, retry)
	}
	return NewModel(cfg, requester), nil
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Continue(ctx context.Context, article *model.Article) (string, error) {
	switch m.prompt {
	case config.PromptPlain:
		query := article.Context()
		res, err := m.requester.Request(ctx, query)
		if err != nil {
			return "", errors.Wrapf(err, "%s 续写失败", m.name)
		}
		// 输出需要复述上文，否则视为无效续写
		idx := strings.LastIndex(res, query)
		if idx < 0 {
			return "", nil
		}
		real := res[idx+len(query):]
		real = strings.NewReplacer("<s>", "", "</s>", "").Replace(real)
		return sentence.FirstSentence(strings.TrimSpace(real)), nil
	case config.PromptChat:
		res, err := m.requester.Request(ctx, strings.Replace(chatContinueTemplate, "{context}", article.Context(), 1))
		if err != nil {
			return "", errors.Wrapf(err, "%s 续写失败", m.name)
		}
		real := lastAfter(res, "Assistant:")
		real = firstBefore(real, "</s>")
		return sentence.FirstSentence(strings.TrimSpace(real)), nil
	default:
		res, err := m.requester.Request(ctx, strings.Replace(continueTemplate, "{context}", article.Context(), 1))
		if err != nil {
			return "", errors.Wrapf(err, "%s 续写失败", m.name)
		}
		return sentence.FirstSentence(strings.TrimSpace(between(res, "<response>", "</response>"))), nil
	}
}

func (m *Model) ExtractKeywords(ctx context.Context, s string) ([]string, error) {
	if !m.canExtract {
		return nil, errors.Wrapf(ErrUnsupported, "%s 未开启关键词抽取", m.name)
	}
	res, err := m.requester.Request(ctx, strings.Replace(extractTemplate, "{sentence}", s, 1))
	if err != nil {
		return nil, errors.Wrapf(err, "%s 抽取关键词失败", m.name)
	}
	return ParseKeywords(res, s), nil
}

func (m *Model) JudgeKeywords(ctx context.Context, keywords []string, candidate *model.CandidateRecord) (map[string]string, error) {
	if !m.canJudge {
		return nil, errors.Wrapf(ErrUnsupported, "%s 未开启幻觉判断", m.name)
	}
	res, err := m.requester.Request(ctx, BuildJudgePrompt(keywords, candidate))
	if err != nil {
		return nil, errors.Wrapf(err, "%s 判断关键词失败", m.name)
	}
	return ParseVerdicts(res, keywords), nil
}

// between 取最后一个 open 之后、其后第一个 close 之前的内容；标记缺失时保留原文
func between(s, open, close string) string {
	return firstBefore(lastAfter(s, open), close)
}

func lastAfter(s, sep string) string {
	if idx := strings.LastIndex(s, sep); idx >= 0 {
		return s[idx+len(sep):]
	}
	return s
}

func firstBefore(s, sep string) string {
	if idx := strings.Index(s, sep); idx >= 0 {
		return s[:idx]
	}
	return s
}
