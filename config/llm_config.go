package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// 模型后端类型
const (
	BackendSelfHosted = "selfhosted"
	BackendOpenAI     = "openai"
	BackendAnthropic  = "anthropic"
)

// 续写提示词风格
const (
	PromptInstructed = "instructed" // 带指令与示例，结果写在 <response></response> 之间
	PromptPlain      = "plain"      // 直接输入上文，适用于指令微调不足的模型
	PromptChat       = "chat"       // Human/Assistant 对话模板
)

// 模型能力，续写能力所有后端都具备
const (
	CapabilityExtract = "extract"
	CapabilityJudge   = "judge"
)

// BackendConfig 单个模型后端的请求参数
type BackendConfig struct {
	Name     string `json:"name" yaml:"name"`         // 模型名称，写入 generatedBy
	Preset   string `json:"preset" yaml:"preset"`     // 预设参数名，为空时使用 name
	Type     string `json:"type" yaml:"type"`         // selfhosted, openai, anthropic
	Endpoint string `json:"endpoint" yaml:"endpoint"` // 请求地址或 API base URL
	Token    string `json:"token" yaml:"token"`       // 请求 token 或 API key
	Model    string `json:"model" yaml:"model"`       // openai/anthropic 模型 ID

	Prompt       string   `json:"prompt" yaml:"prompt"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`

	Temperature        float64 `json:"temperature" yaml:"temperature"`
	TopP               float64 `json:"topP" yaml:"topP"`
	DoSample           *bool   `json:"doSample" yaml:"doSample"`
	MaxNewTokens       int     `json:"maxNewTokens" yaml:"maxNewTokens"`
	NumReturnSequences int     `json:"numReturnSequences" yaml:"numReturnSequences"`
	SystemMessage      string  `json:"systemMessage" yaml:"systemMessage"`

	RateLimit float64       `json:"rateLimit" yaml:"rateLimit"` // 每秒请求数，0 表示不限
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	Retry     bool          `json:"retry" yaml:"retry"`   // 失败时按 RetryConfig 退避重试
	Report    bool          `json:"report" yaml:"report"` // 记录累计 token 消耗
}

// Can 判断后端是否开启某项能力
func (b *BackendConfig) Can(capability string) bool {
	for _, c := range b.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

func (b *BackendConfig) Validate() []error {
	var errs = make([]error, 0)
	if b.Name == "" {
		errs = append(errs, errors.Errorf("模型名称不能为空"))
	}
	switch b.Type {
	case BackendSelfHosted:
		if b.Endpoint == "" {
			errs = append(errs, errors.Errorf("模型 %s 的 endpoint 不能为空", b.Name))
		}
	case BackendOpenAI, BackendAnthropic:
		if b.Token == "" {
			errs = append(errs, errors.Errorf("模型 %s 的 API key 不能为空", b.Name))
		}
		if b.Model == "" {
			errs = append(errs, errors.Errorf("模型 %s 的 model 不能为空", b.Name))
		}
	default:
		errs = append(errs, errors.Errorf("模型 %s 的类型未知: %s", b.Name, b.Type))
	}
	switch b.Prompt {
	case PromptInstructed, PromptPlain, PromptChat:
	default:
		errs = append(errs, errors.Errorf("模型 %s 的提示词风格未知: %s", b.Name, b.Prompt))
	}
	for _, c := range b.Capabilities {
		if c != CapabilityExtract && c != CapabilityJudge {
			errs = append(errs, errors.Errorf("模型 %s 的能力未知: %s", b.Name, c))
		}
	}
	if b.MaxNewTokens <= 0 {
		errs = append(errs, errors.Errorf("模型 %s 的 maxNewTokens 必须大于 0", b.Name))
	}
	if b.RateLimit < 0 {
		errs = append(errs, errors.Errorf("模型 %s 的 rateLimit 不能为负数", b.Name))
	}
	return errs
}

// ApplyPreset 用预设参数填充未配置的字段
func (b *BackendConfig) ApplyPreset() {
	key := b.Preset
	if key == "" {
		key = b.Name
	}
	preset, ok := backendPresets[strings.ToLower(key)]
	if !ok {
		preset = BackendConfig{
			Type:               BackendSelfHosted,
			Prompt:             PromptInstructed,
			Temperature:        1.0,
			DoSample:           boolPtr(true),
			MaxNewTokens:       100,
			NumReturnSequences: 1,
		}
	}
	if b.Type == "" {
		b.Type = preset.Type
	}
	if b.Model == "" {
		b.Model = preset.Model
	}
	if b.Prompt == "" {
		b.Prompt = preset.Prompt
	}
	if b.Capabilities == nil {
		b.Capabilities = preset.Capabilities
	}
	if b.Temperature == 0 {
		b.Temperature = preset.Temperature
	}
	if b.TopP == 0 {
		b.TopP = preset.TopP
	}
	if b.DoSample == nil {
		b.DoSample = preset.DoSample
	}
	if b.MaxNewTokens == 0 {
		b.MaxNewTokens = preset.MaxNewTokens
	}
	if b.NumReturnSequences == 0 {
		b.NumReturnSequences = preset.NumReturnSequences
	}
	if b.SystemMessage == "" {
		b.SystemMessage = preset.SystemMessage
	}
	if b.Timeout == 0 {
		b.Timeout = preset.Timeout
	}
	if !b.Retry {
		b.Retry = preset.Retry
	}
}

// Sampling 是否采样，未配置时为 true
func (b *BackendConfig) Sampling() bool {
	return b.DoSample == nil || *b.DoSample
}

func boolPtr(v bool) *bool {
	return &v
}

const gptSystemMessage = "You are ChatGPT, a large language model trained by OpenAI.\nKnowledge cutoff: 2021-09"

// 各后端的默认参数
var backendPresets = map[string]BackendConfig{
	"baichuan2": {
		Type: BackendSelfHosted, Prompt: PromptInstructed,
		Capabilities: []string{CapabilityExtract, CapabilityJudge},
		Temperature:  1.0, DoSample: boolPtr(true), MaxNewTokens: 100, NumReturnSequences: 1,
		Timeout: 60 * time.Second,
	},
	"internlm": {
		Type: BackendSelfHosted, Prompt: PromptPlain, Capabilities: []string{},
		Temperature: 1.0, DoSample: boolPtr(true), MaxNewTokens: 100, NumReturnSequences: 1,
		Timeout: 60 * time.Second,
	},
	"qwen": {
		Type: BackendSelfHosted, Prompt: PromptPlain, Capabilities: []string{},
		Temperature: 1.0, DoSample: boolPtr(true), MaxNewTokens: 100, NumReturnSequences: 1,
		Timeout: 60 * time.Second,
	},
	"chatglm2": {
		Type: BackendSelfHosted, Prompt: PromptPlain, Capabilities: []string{},
		Temperature: 0.95, DoSample: boolPtr(true), MaxNewTokens: 100, NumReturnSequences: 1,
		Timeout: 60 * time.Second,
	},
	"selfmodel": {
		Type: BackendSelfHosted, Prompt: PromptChat, Capabilities: []string{},
		Temperature: 1.0, DoSample: boolPtr(true), MaxNewTokens: 600, NumReturnSequences: 1,
		Timeout: 120 * time.Second,
	},
	"gpt": {
		Type: BackendOpenAI, Model: "gpt-3.5-turbo", Prompt: PromptInstructed,
		Capabilities: []string{CapabilityExtract, CapabilityJudge},
		Temperature:  1, TopP: 1, DoSample: boolPtr(true), MaxNewTokens: 1024, NumReturnSequences: 1,
		SystemMessage: gptSystemMessage, Timeout: 120 * time.Second, Retry: true,
	},
	"claude": {
		Type: BackendAnthropic, Model: "claude-haiku-4-5-20251001", Prompt: PromptInstructed,
		Capabilities: []string{CapabilityExtract, CapabilityJudge},
		Temperature:  1, DoSample: boolPtr(true), MaxNewTokens: 1024, NumReturnSequences: 1,
		Timeout: 120 * time.Second, Retry: true,
	},
}

// RetryConfig 外部调用的随机指数退避参数
type RetryConfig struct {
	InitialInterval time.Duration `json:"initialInterval" yaml:"initialInterval"`
	MaxInterval     time.Duration `json:"maxInterval" yaml:"maxInterval"`
	MaxAttempts     int           `json:"maxAttempts" yaml:"maxAttempts"`
}

func (r *RetryConfig) Validate() []error {
	var errs = make([]error, 0)
	if r.InitialInterval <= 0 || r.MaxInterval < r.InitialInterval {
		errs = append(errs, errors.Errorf("重试间隔无效: [%s,%s]", r.InitialInterval, r.MaxInterval))
	}
	if r.MaxAttempts <= 0 {
		errs = append(errs, errors.Errorf("重试次数必须大于 0"))
	}
	return errs
}

func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		InitialInterval: 21 * time.Second,
		MaxInterval:     70 * time.Second,
		MaxAttempts:     6,
	}
}

// RewardConfig 流畅度打分所用奖励模型服务
type RewardConfig struct {
	Endpoint string        `json:"endpoint" yaml:"endpoint"`
	Token    string        `json:"token" yaml:"token"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

func (r *RewardConfig) Validate() []error {
	if r.Endpoint == "" {
		return []error{errors.Errorf("奖励模型 endpoint 不能为空")}
	}
	return nil
}

func NewDefaultRewardConfig() *RewardConfig {
	return &RewardConfig{Timeout: 60 * time.Second}
}
