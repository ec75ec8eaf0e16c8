package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

func (l *LogConfig) Validate() []error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return []error{errors.Errorf("日志级别无效: %s", l.Level)}
	}
	return nil
}

func NewDefaultLogConfig() *LogConfig {
	return &LogConfig{Level: "info"}
}
