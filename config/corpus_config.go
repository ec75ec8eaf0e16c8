package config

import "github.com/pkg/errors"

const (
	CorpusSourceFile  = "file"
	CorpusSourceMySQL = "mysql"
)

// CorpusConfig 原始语料与预处理结果的位置
type CorpusConfig struct {
	Source       string `json:"source" yaml:"source"`             // file 或 mysql
	RawDir       string `json:"rawDir" yaml:"rawDir"`             // 每个文件是一个新闻 JSON 数组
	Table        string `json:"table" yaml:"table"`               // mysql 来源的表名
	BatchSize    int    `json:"batchSize" yaml:"batchSize"`       // mysql 分批读取大小
	ProcessedDir string `json:"processedDir" yaml:"processedDir"` // 预处理后每篇文章一个文件
	StripHTML    bool   `json:"stripHTML" yaml:"stripHTML"`       // 正文含 HTML 标签时先清洗
}

func (c *CorpusConfig) Validate() []error {
	var errs = make([]error, 0)
	switch c.Source {
	case CorpusSourceFile:
		if c.RawDir == "" {
			errs = append(errs, errors.Errorf("原始语料目录不能为空"))
		}
	case CorpusSourceMySQL:
		if c.Table == "" {
			errs = append(errs, errors.Errorf("原始语料表名不能为空"))
		}
	default:
		errs = append(errs, errors.Errorf("未知的语料来源: %s", c.Source))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.Errorf("批量大小必须大于 0"))
	}
	if c.ProcessedDir == "" {
		errs = append(errs, errors.Errorf("预处理输出目录不能为空"))
	}
	return errs
}

func NewDefaultCorpusConfig() *CorpusConfig {
	return &CorpusConfig{
		Source:       CorpusSourceFile,
		RawDir:       "./sources/xinhua/raw",
		Table:        "tbl_raw_news",
		BatchSize:    500,
		ProcessedDir: "./sources/xinhua/processed",
	}
}
