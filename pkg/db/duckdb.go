package db

import (
	"context"
	"database/sql"
	"sync"

	"news-hallucination/config"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

var duckDB *sql.DB
var duckDBOnce sync.Once

// InitDuckDB 初始化 duckdb 连接，导出与统计共用
func InitDuckDB(cfg *config.DuckDBConfig) error {
	var err error
	duckDBOnce.Do(func() {
		duckDB, err = sql.Open("duckdb", cfg.DSN())
		if err != nil {
			zap.S().Errorf("连接 duckdb 失败: %v", err)
			return
		}

		if err = duckDB.Ping(); err != nil {
			zap.S().Errorf("duckdb 连接测试失败: %v", err)
			return
		}

		zap.S().Debugf("duckdb 初始化完成: %s", cfg.DSN())
	})
	return err
}

// GetDuckDB 获取 DuckDB 连接
func GetDuckDB() *sql.DB {
	return duckDB
}

// GetDuckDBWithContext 获取带上下文的 DuckDB 连接
func GetDuckDBWithContext(ctx context.Context) *sql.DB {
	return duckDB
}

// CloseDuckDB 关闭连接，checkpoint 后数据文件才完整
func CloseDuckDB() error {
	if duckDB == nil {
		return nil
	}
	return duckDB.Close()
}
