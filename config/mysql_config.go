package config

import (
	"time"

	"github.com/pkg/errors"
)

// MySQLConfig 原始语料所在的 MySQL（或 TiDB）连接配置
type MySQLConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`
	Replicas        []string      `json:"replicas" yaml:"replicas"` // 只读副本，读取语料时随机分流
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

func (m *MySQLConfig) Validate() []error {
	var errs = make([]error, 0)
	if m.DSN == "" {
		errs = append(errs, errors.Errorf("MySQL DSN 不能为空"))
	}
	if m.MaxOpenConns < 0 || m.MaxIdleConns < 0 {
		errs = append(errs, errors.Errorf("MySQL 连接数不能为负数"))
	}
	return errs
}

func NewDefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}
}
