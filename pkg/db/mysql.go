package db

import (
	"context"
	"sync"

	"news-hallucination/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var mysqlDB *gorm.DB
var mysqlOnce sync.Once

// InitMySQL 初始化原始语料库连接。配置了只读副本时读请求随机分流到副本
func InitMySQL(cfg *config.MySQLConfig) error {
	var err error
	mysqlOnce.Do(func() {
		mysqlDB, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			err = errors.Wrap(err, "连接 MySQL 失败")
			return
		}

		if len(cfg.Replicas) > 0 {
			replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
			for _, dsn := range cfg.Replicas {
				replicas = append(replicas, mysql.Open(dsn))
			}
			err = mysqlDB.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			}).
				SetMaxOpenConns(cfg.MaxOpenConns).
				SetMaxIdleConns(cfg.MaxIdleConns).
				SetConnMaxLifetime(cfg.ConnMaxLifetime))
			if err != nil {
				err = errors.Wrap(err, "注册 MySQL 只读副本失败")
				return
			}
		}

		sqlDB, e := mysqlDB.DB()
		if e != nil {
			err = errors.Wrap(e, "获取 MySQL 连接池失败")
			return
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		if err = sqlDB.Ping(); err != nil {
			err = errors.Wrap(err, "MySQL 连接测试失败")
			return
		}

		zap.S().Debugf("MySQL 初始化完成，只读副本 %d 个", len(cfg.Replicas))
	})
	return err
}

// GetMySQLWithContext 获取带上下文的 MySQL 连接
func GetMySQLWithContext(ctx context.Context) *gorm.DB {
	if mysqlDB == nil {
		return nil
	}
	return mysqlDB.WithContext(ctx)
}
