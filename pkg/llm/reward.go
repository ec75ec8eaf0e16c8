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

// RewardModel 调用部署的奖励模型，为上文与续写的衔接流畅度打分
type RewardModel struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewRewardModel(cfg *config.RewardConfig) *RewardModel {
	return &RewardModel{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *RewardModel) Score(ctx context.Context, prefix, continuation string) (float64, error) {
	body, err := json.Marshal(map[string]string{
		"context":      prefix,
		"continuation": continuation,
	})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("token", m.token)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "请求奖励模型失败")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "读取奖励模型响应失败")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, errors.Errorf("奖励模型返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	score := gjson.GetBytes(respBody, "score")
	if score.Type != gjson.Number {
		return 0, errors.Errorf("奖励模型响应缺少 score: %s", strings.TrimSpace(string(respBody)))
	}
	return score.Float(), nil
}
