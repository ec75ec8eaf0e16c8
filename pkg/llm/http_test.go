package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"news-hallucination/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfHostedRequester(t *testing.T) {
	var payload selfHostedPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"choices": ["续写结果。"]}`))
	}))
	defer srv.Close()

	cfg := &config.BackendConfig{Name: "chatglm2", Endpoint: srv.URL, Token: "secret"}
	cfg.ApplyPreset()
	out, err := NewSelfHostedRequester(cfg).Request(context.Background(), "上文")
	require.NoError(t, err)
	assert.Equal(t, "续写结果。", out)
	assert.Equal(t, "上文", payload.Prompt)
	assert.Equal(t, 0.95, payload.Params.Temperature)
	assert.True(t, payload.Params.DoSample)
	assert.Equal(t, 100, payload.Params.MaxNewTokens)
	assert.Equal(t, 1, payload.Params.NumReturnSequences)
}

func TestSelfHostedRequesterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result": "x"}`))
	}))
	defer srv.Close()

	_, err := NewSelfHostedRequester(&config.BackendConfig{Endpoint: srv.URL + "/fail"}).Request(context.Background(), "q")
	assert.ErrorContains(t, err, "503")

	_, err = NewSelfHostedRequester(&config.BackendConfig{Endpoint: srv.URL}).Request(context.Background(), "q")
	assert.ErrorContains(t, err, "choices")
}

func TestRewardModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["continuation"] == "坏" {
			_, _ = w.Write([]byte(`{"error": "bad"}`))
			return
		}
		assert.Equal(t, "上文", body["context"])
		_, _ = w.Write([]byte(`{"score": 1.25}`))
	}))
	defer srv.Close()

	m := NewRewardModel(&config.RewardConfig{Endpoint: srv.URL, Timeout: time.Second})
	score, err := m.Score(context.Background(), "上文", "续写")
	require.NoError(t, err)
	assert.Equal(t, 1.25, score)

	_, err = m.Score(context.Background(), "上文", "坏")
	assert.Error(t, err)
}
