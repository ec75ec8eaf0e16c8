package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type IConfig interface {
	Validate() []error
}

type GlobalConfig struct {
	LogConfig      *LogConfig       `json:"log" yaml:"log"`
	DuckDBConfig   *DuckDBConfig    `json:"duckdb" yaml:"duckdb"`
	MySQLConfig    *MySQLConfig     `json:"mysql" yaml:"mysql"`
	CorpusConfig   *CorpusConfig    `json:"corpus" yaml:"corpus"`
	PipelineConfig *PipelineConfig  `json:"pipeline" yaml:"pipeline"`
	RetryConfig    *RetryConfig     `json:"retry" yaml:"retry"`
	RewardConfig   *RewardConfig    `json:"reward" yaml:"reward"`
	Generators     []*BackendConfig `json:"generators" yaml:"generators"`
	Extractor      *BackendConfig   `json:"extractor" yaml:"extractor"`
	Judge          *BackendConfig   `json:"judge" yaml:"judge"`
}

func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	for _, c := range g.subConfigs() {
		if es := c.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	// MySQL 仅在语料来源为 mysql 时校验
	if g.CorpusConfig != nil && g.CorpusConfig.Source == CorpusSourceMySQL {
		if g.MySQLConfig == nil {
			errs = append(errs, errors.Errorf("语料来源为 mysql 时必须配置 mysql"))
		} else if es := g.MySQLConfig.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	seen := make(map[string]struct{}, len(g.Generators))
	for i, b := range g.Generators {
		if b == nil {
			errs = append(errs, errors.Errorf("generators[%d] 为空", i))
			continue
		}
		if _, ok := seen[b.Name]; ok {
			errs = append(errs, errors.Errorf("续写模型名称重复: %s", b.Name))
		}
		seen[b.Name] = struct{}{}
		errs = append(errs, b.Validate()...)
	}
	for _, b := range []*BackendConfig{g.Extractor, g.Judge} {
		if b != nil {
			errs = append(errs, b.Validate()...)
		}
	}
	return errs
}

func (g *GlobalConfig) subConfigs() []IConfig {
	configs := make([]IConfig, 0, 5)
	if g.LogConfig != nil {
		configs = append(configs, g.LogConfig)
	}
	if g.DuckDBConfig != nil {
		configs = append(configs, g.DuckDBConfig)
	}
	if g.CorpusConfig != nil {
		configs = append(configs, g.CorpusConfig)
	}
	if g.PipelineConfig != nil {
		configs = append(configs, g.PipelineConfig)
	}
	if g.RetryConfig != nil {
		configs = append(configs, g.RetryConfig)
	}
	return configs
}

// Resolve 为每个模型后端补齐预设参数
func (g *GlobalConfig) Resolve() {
	for _, b := range g.Generators {
		if b != nil {
			b.ApplyPreset()
		}
	}
	for _, b := range []*BackendConfig{g.Extractor, g.Judge} {
		if b != nil {
			b.ApplyPreset()
		}
	}
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:      NewDefaultLogConfig(),
		DuckDBConfig:   NewDefaultDuckDBConfig(),
		MySQLConfig:    NewDefaultMySQLConfig(),
		CorpusConfig:   NewDefaultCorpusConfig(),
		PipelineConfig: NewDefaultPipelineConfig(),
		RetryConfig:    NewDefaultRetryConfig(),
		RewardConfig:   NewDefaultRewardConfig(),
	}
}

func TryLoadFromDisk(configFilePath string) (*GlobalConfig, error) {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return nil, err
	}
	dir, file := filepath.Split(configFilePath)
	fileType := filepath.Ext(file)
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(file, fileType))
	v.SetConfigType(strings.TrimPrefix(fileType, "."))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		return nil, errors.Errorf("解析配置文件错误:%s", err.Error())
	}
	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = strings.TrimPrefix(fileType, ".")
	}); err != nil {
		return nil, err
	}
	cfg.Resolve()
	return cfg, nil
}
