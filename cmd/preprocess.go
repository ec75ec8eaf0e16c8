package cmd

import (
	"news-hallucination/config"
	"news-hallucination/pkg/corpus"
	"news-hallucination/pkg/db"
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewPreprocessCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "预处理原始新闻语料",
		Long:  "从 JSON 文件目录或 MySQL 表读取原始新闻，过滤并切分为开头与剩余部分，每篇文章写入一个文件",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}

			ctx := signals.SetupSignalHandler()

			if cfg.CorpusConfig.Source == config.CorpusSourceMySQL {
				if err := db.InitMySQL(cfg.MySQLConfig); err != nil {
					zap.S().Errorf("MySQL 数据库连接错误:%s", err.Error())
					return
				}
			}
			src, err := corpus.NewSource(ctx, cfg.CorpusConfig)
			if err != nil {
				zap.S().Errorf("创建语料来源错误:%s", err.Error())
				return
			}
			target, ok := openStore(cfg.CorpusConfig.ProcessedDir)
			if !ok {
				return
			}

			p := service.NewPreprocessor(target, cfg.CorpusConfig.StripHTML)
			if _, err := p.Process(ctx, src); err != nil {
				zap.S().Errorf("预处理失败:%s", err.Error())
				return
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	return cmd
}
