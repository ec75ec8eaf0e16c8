package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"news-hallucination/pkg/model"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// FileSource 目录下每个文件是一个新闻对象数组，按文件名顺序读取
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Name() string {
	return s.dir
}

func (s *FileSource) Walk(ctx context.Context, fn func(news *model.RawNews) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return errors.Wrapf(err, "读取语料目录 %s 失败", s.dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		objs, err := readRawFile(filepath.Join(s.dir, name))
		if err != nil {
			zap.S().Warnf("语料文件 %s 解析失败，跳过: %v", name, err)
			continue
		}
		for i, obj := range objs {
			news := toRawNews(obj)
			news.ID = uint(i + 1)
			if err := fn(news); err != nil {
				return err
			}
		}
		zap.S().Debugf("已读取语料文件 %s，共 %d 条", name, len(objs))
	}
	return nil
}

func readRawFile(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var objs []map[string]interface{}
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, err
	}
	return objs, nil
}

// toRawNews 字段类型不固定（日期可能是数字、分类可能为 null），统一转为字符串
func toRawNews(obj map[string]interface{}) *model.RawNews {
	return &model.RawNews{
		HeadLine:         cast.ToString(obj["headLine"]),
		BroadcastDate:    cast.ToString(obj["broadcastDate"]),
		Content:          cast.ToString(obj["content"]),
		NewsCategoryName: cast.ToString(obj["newsCategoryName"]),
	}
}
