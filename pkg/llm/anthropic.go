package llm

import (
	"context"
	"strings"
	"sync/atomic"

	"news-hallucination/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AnthropicRequester 通过 messages 接口请求 Claude 模型
type AnthropicRequester struct {
	name          string
	client        anthropic.Client
	model         string
	systemMessage string
	temperature   float64
	maxTokens     int64
	report        bool
	consumed      atomic.Int64
}

func NewAnthropicRequester(cfg *config.BackendConfig) *AnthropicRequester {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.Token)),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &AnthropicRequester{
		name:          cfg.Name,
		client:        anthropic.NewClient(opts...),
		model:         cfg.Model,
		systemMessage: cfg.SystemMessage,
		temperature:   cfg.Temperature,
		maxTokens:     int64(cfg.MaxNewTokens),
		report:        cfg.Report,
	}
}

func (r *AnthropicRequester) Request(ctx context.Context, query string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	}
	if r.systemMessage != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.systemMessage}}
	}
	if r.temperature > 0 {
		params.Temperature = anthropic.Float(r.temperature)
	}

	msg, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "Anthropic 请求失败")
	}
	total := r.consumed.Add(msg.Usage.InputTokens + msg.Usage.OutputTokens)
	if r.report {
		zap.S().Infof("%s 累计消耗 token: %d", r.name, total)
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	if full.Len() == 0 {
		return "", errors.New("Anthropic 未返回文本")
	}
	return full.String(), nil
}
