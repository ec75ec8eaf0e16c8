package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"news-hallucination/config"
	"news-hallucination/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testArticle = &model.Article{
	Filename:      "doc_000001.json",
	HeadLine:      "不支持任何禁令！美全国步枪协会与特朗普唱反调",
	BroadcastDate: "2018-02-27 10:31:05",
	NewsBeginning: "美国全国步枪协会发言人达娜·勒舍25日与总统唐纳德·特朗普唱起反调。",
	NewsRemainder: "特朗普早些时候说已经与全国步枪协会“通气”。",
}

func newTestModel(name string, r Requester) *Model {
	cfg := &config.BackendConfig{Name: name}
	cfg.ApplyPreset()
	return NewModel(cfg, r)
}

func TestContinueInstructed(t *testing.T) {
	var got string
	m := newTestModel("baichuan2", RequesterFunc(func(_ context.Context, q string) (string, error) {
		got = q
		return "<response>\n勒舍说，协会立场清晰。特朗普则表示支持。\n</response>", nil
	}))

	out, err := m.Continue(context.Background(), testArticle)
	require.NoError(t, err)
	assert.Equal(t, "勒舍说，协会立场清晰。", out)
	assert.Contains(t, got, "《不支持任何禁令！美全国步枪协会与特朗普唱反调》\n2018-02-27\n美国全国步枪协会")
	assert.NotContains(t, got, "{context}")
}

func TestContinueTruncatesAtColon(t *testing.T) {
	m := newTestModel("baichuan2", RequesterFunc(func(context.Context, string) (string, error) {
		return "<response>勒舍说：协会不支持禁令。</response>", nil
	}))
	out, err := m.Continue(context.Background(), testArticle)
	require.NoError(t, err)
	assert.Equal(t, "勒舍说：", out)
}

func TestContinuePlain(t *testing.T) {
	t.Run("output echoes the context", func(t *testing.T) {
		m := newTestModel("qwen", RequesterFunc(func(_ context.Context, q string) (string, error) {
			return "<s>" + q + " 勒舍表示反对。其他内容</s>", nil
		}))
		out, err := m.Continue(context.Background(), testArticle)
		require.NoError(t, err)
		assert.Equal(t, "勒舍表示反对。", out)
	})

	t.Run("output without the context is discarded", func(t *testing.T) {
		m := newTestModel("chatglm2", RequesterFunc(func(context.Context, string) (string, error) {
			return "完全无关的输出。", nil
		}))
		out, err := m.Continue(context.Background(), testArticle)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestContinueChat(t *testing.T) {
	m := newTestModel("selfmodel", RequesterFunc(func(_ context.Context, q string) (string, error) {
		assert.True(t, strings.HasPrefix(q, "Human: 【生成任务：文本续写】"))
		assert.True(t, strings.HasSuffix(q, " Assistant:"))
		return q + " 勒舍随后接受了采访。</s>多余", nil
	}))
	out, err := m.Continue(context.Background(), testArticle)
	require.NoError(t, err)
	assert.Equal(t, "勒舍随后接受了采访。", out)
}

func TestContinueWrapsRequestError(t *testing.T) {
	boom := errors.New("connection refused")
	m := newTestModel("internlm", RequesterFunc(func(context.Context, string) (string, error) {
		return "", boom
	}))
	_, err := m.Continue(context.Background(), testArticle)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestUnsupportedCapabilities(t *testing.T) {
	called := false
	m := newTestModel("qwen", RequesterFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	}))

	_, err := m.ExtractKeywords(context.Background(), "句子")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = m.JudgeKeywords(context.Background(), []string{"句子"}, &model.CandidateRecord{})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, called)
}

func TestExtractAndJudge(t *testing.T) {
	m := newTestModel("baichuan2", RequesterFunc(func(_ context.Context, q string) (string, error) {
		if strings.Contains(q, "<keywords></keywords>") {
			return "<keywords>\n协会\n立场\n捏造\n</keywords>", nil
		}
		return `<result>{"协会": "合理", "立场": "不合理，原文未提及"}</result>`, nil
	}))

	kws, err := m.ExtractKeywords(context.Background(), "协会表明立场。")
	require.NoError(t, err)
	assert.Equal(t, []string{"协会", "立场"}, kws)

	verdicts, err := m.JudgeKeywords(context.Background(), kws, &model.CandidateRecord{
		Article:                           *testArticle,
		CandidateHallucinatedContinuation: "协会表明立场。",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"立场": "不合理，原文未提及"}, verdicts)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(&config.BackendConfig{Name: "x", Type: "grpc"}, nil)
	assert.Error(t, err)

	m, err := New(&config.BackendConfig{
		Name: "gpt", Type: config.BackendOpenAI, Model: "gpt-3.5-turbo", Token: "sk-test",
		Prompt: config.PromptInstructed, Retry: true, RateLimit: 2,
	}, config.NewDefaultRetryConfig())
	require.NoError(t, err)
	assert.Equal(t, "gpt", m.Name())
}
