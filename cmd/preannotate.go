package cmd

import (
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewPreAnnotateCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "preannotate",
		Short: "导出人工标注平台的预标注数据",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}
			ctx := signals.SetupSignalHandler()

			source, ok := openStore(cfg.PipelineConfig.KeywordHallucinatedDir())
			if !ok {
				return
			}
			target, ok := openStore(cfg.PipelineConfig.PreAnnotationsDir)
			if !ok {
				return
			}
			if _, err := service.ExportPreAnnotations(ctx, source, target); err != nil {
				zap.S().Errorf("导出预标注失败:%s", err.Error())
				return
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	return cmd
}
