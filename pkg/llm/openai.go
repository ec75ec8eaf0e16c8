package llm

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"news-hallucination/config"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpenAIRequester 通过 chat completions 接口请求 OpenAI 兼容模型
type OpenAIRequester struct {
	name          string
	client        openai.Client
	model         string
	systemMessage string
	temperature   float64
	topP          float64
	maxTokens     int64
	report        bool
	consumed      atomic.Int64
}

func NewOpenAIRequester(cfg *config.BackendConfig) *OpenAIRequester {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.Token)),
		// 重试由 RetryingRequester 统一负责
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAIRequester{
		name:          cfg.Name,
		client:        openai.NewClient(opts...),
		model:         cfg.Model,
		systemMessage: cfg.SystemMessage,
		temperature:   cfg.Temperature,
		topP:          cfg.TopP,
		maxTokens:     int64(cfg.MaxNewTokens),
		report:        cfg.Report,
	}
}

func (r *OpenAIRequester) Request(ctx context.Context, query string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if r.systemMessage != "" {
		messages = append(messages, openai.SystemMessage(r.systemMessage+"\nCurrent date: "+time.Now().Format(time.DateOnly)))
	}
	messages = append(messages, openai.UserMessage(query))

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(r.model),
		Messages:  messages,
		MaxTokens: openai.Int(r.maxTokens),
	}
	if r.temperature > 0 {
		params.Temperature = openai.Float(r.temperature)
	}
	if r.topP > 0 {
		params.TopP = openai.Float(r.topP)
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "OpenAI 请求失败")
	}
	total := r.consumed.Add(resp.Usage.TotalTokens)
	if r.report {
		zap.S().Infof("%s 累计消耗 token: %d", r.name, total)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI 未返回结果")
	}
	return resp.Choices[0].Message.Content, nil
}

// TokensConsumed 返回累计消耗的 token 数
func (r *OpenAIRequester) TokensConsumed() int64 {
	return r.consumed.Load()
}
