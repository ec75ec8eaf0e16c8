package cmd

import (
	"news-hallucination/pkg/db"
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewExportCommand() *cobra.Command {
	var configFilePath string
	var stage string
	var table string
	var mergePath string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "将某个阶段的输出导入 DuckDB 或合并为一个 JSON 文件",
		Long: "阶段可选 processed、candidates、keyword_hallucinated、unhallucinated、pre_annotations、hallucinations。" +
			"指定 --merge 时合并为 JSON 数组文件，否则写入 DuckDB，表名默认与阶段同名",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}
			dir, ok := stageDir(cfg, stage)
			if !ok {
				zap.S().Errorf("未知的阶段:%s", stage)
				return
			}
			src, ok := openStore(dir)
			if !ok {
				return
			}

			if mergePath != "" {
				n, err := service.MergeJSON(src, mergePath)
				if err != nil {
					zap.S().Errorf("合并失败:%s", err.Error())
					return
				}
				zap.S().Infof("已将 %d 条记录合并到 %s", n, mergePath)
				return
			}

			if cfg.DuckDBConfig == nil {
				zap.S().Error("DuckDB 配置未设置")
				return
			}

			ctx := signals.SetupSignalHandler()

			if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
				zap.S().Errorf("DuckDB 连接错误:%s", err.Error())
				return
			}
			defer db.CloseDuckDB()

			if table == "" {
				table = stage
			}
			exportService := service.NewExportService(db.GetDuckDBWithContext(ctx))
			if _, err := exportService.ExportToDuckDB(ctx, src, table, batchSize); err != nil {
				zap.S().Errorf("导出失败:%s", err.Error())
				return
			}

			count, err := exportService.GetExportedCount(ctx, table)
			if err != nil {
				zap.S().Warnf("获取统计信息失败:%s", err.Error())
			} else {
				zap.S().Infof("DuckDB 表 %s 中的记录数量: %d", table, count)
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&stage, "stage", "s", StageCandidates, "要导出的阶段")
	cmd.Flags().StringVarP(&table, "table", "t", "", "DuckDB 表名")
	cmd.Flags().StringVarP(&mergePath, "merge", "m", "", "合并输出的 JSON 文件路径")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 100, "批量处理大小")
	return cmd
}
