// Package corpus 读取原始新闻语料，来源可以是 JSON 文件目录或 MySQL 表。
package corpus

import (
	"context"

	"news-hallucination/config"
	"news-hallucination/pkg/db"
	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
)

// Source 按固定顺序逐条产出原始新闻，fn 返回错误时中止遍历
type Source interface {
	Name() string
	Walk(ctx context.Context, fn func(news *model.RawNews) error) error
}

// NewSource 按配置构建语料来源，mysql 来源需先调用 db.InitMySQL
func NewSource(ctx context.Context, cfg *config.CorpusConfig) (Source, error) {
	switch cfg.Source {
	case config.CorpusSourceFile:
		return NewFileSource(cfg.RawDir), nil
	case config.CorpusSourceMySQL:
		conn := db.GetMySQLWithContext(ctx)
		if conn == nil {
			return nil, errors.New("MySQL 连接未初始化")
		}
		return NewMySQLSource(conn, cfg.Table, cfg.BatchSize), nil
	default:
		return nil, errors.Errorf("未知的语料来源: %s", cfg.Source)
	}
}
