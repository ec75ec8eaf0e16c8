package cmd

import (
	"os"

	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewFinalizeCommand() *cobra.Command {
	var configFilePath string
	var inputPath string

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "根据人工标注结果生成最终幻觉数据",
		Long:  "读取标注平台导出的任务数组，只保留有人标注、无人跳过且没有任何修正的文章",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}
			ctx := signals.SetupSignalHandler()

			data, err := os.ReadFile(inputPath)
			if err != nil {
				zap.S().Errorf("读取标注导出文件错误:%s", err.Error())
				return
			}
			tasks, err := service.ParseAnnotationExport(data)
			if err != nil {
				zap.S().Errorf("解析标注导出文件错误:%s", err.Error())
				return
			}

			machine, ok := openStore(cfg.PipelineConfig.KeywordHallucinatedDir())
			if !ok {
				return
			}
			target, ok := openStore(cfg.PipelineConfig.HallucinationsDir)
			if !ok {
				return
			}
			if _, err := service.Finalize(ctx, tasks, machine, target); err != nil {
				zap.S().Errorf("生成最终幻觉数据失败:%s", err.Error())
				return
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "标注平台导出的 JSON 文件")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
