package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"news-hallucination/config"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// SelfHostedRequester 请求私有部署的模型服务。
// 请求体为 {"prompt", "params"}，响应取 choices[0]。
type SelfHostedRequester struct {
	endpoint string
	token    string
	params   selfHostedParams
	client   *http.Client
}

type selfHostedParams struct {
	Temperature        float64 `json:"temperature"`
	DoSample           bool    `json:"do_sample"`
	MaxNewTokens       int     `json:"max_new_tokens"`
	NumReturnSequences int     `json:"num_return_sequences"`
}

type selfHostedPayload struct {
	Prompt string           `json:"prompt"`
	Params selfHostedParams `json:"params"`
}

func NewSelfHostedRequester(cfg *config.BackendConfig) *SelfHostedRequester {
	return &SelfHostedRequester{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		params: selfHostedParams{
			Temperature:        cfg.Temperature,
			DoSample:           cfg.Sampling(),
			MaxNewTokens:       cfg.MaxNewTokens,
			NumReturnSequences: cfg.NumReturnSequences,
		},
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *SelfHostedRequester) Request(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(selfHostedPayload{Prompt: query, Params: r.params})
	if err != nil {
		return "", errors.Wrap(err, "序列化请求失败")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("token", r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "请求模型服务失败")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "读取模型响应失败")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", errors.Errorf("模型服务返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	choice := gjson.GetBytes(respBody, "choices.0")
	if !choice.Exists() {
		return "", errors.Errorf("模型响应缺少 choices: %s", strings.TrimSpace(string(respBody)))
	}
	return choice.String(), nil
}
