package corpus

import (
	"context"

	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MySQLSource 按主键顺序分批读取语料表，FindInBatches 自带主键排序
type MySQLSource struct {
	conn      *gorm.DB
	table     string
	batchSize int
}

func NewMySQLSource(conn *gorm.DB, table string, batchSize int) *MySQLSource {
	return &MySQLSource{conn: conn, table: table, batchSize: batchSize}
}

func (s *MySQLSource) Name() string {
	return s.table
}

func (s *MySQLSource) Walk(ctx context.Context, fn func(news *model.RawNews) error) error {
	var batch []model.RawNews
	total := 0
	res := s.conn.WithContext(ctx).Table(s.table).
		FindInBatches(&batch, s.batchSize, func(tx *gorm.DB, n int) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range batch {
				if err := fn(&batch[i]); err != nil {
					return err
				}
			}
			total += len(batch)
			zap.S().Debugf("已读取第 %d 批语料，累计 %d 条", n, total)
			return nil
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "读取语料表 %s 失败", s.table)
	}
	return nil
}
