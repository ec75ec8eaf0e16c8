package cmd

import (
	"news-hallucination/pkg/db"
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewStatsCommand() *cobra.Command {
	var configFilePath string
	var tables []string
	var rates bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "统计已导出到 DuckDB 的数据",
		Long:  "输出每张表按类型、按模型的数量，关键词准确率分布，以及按类型的机器判定幻觉比例",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
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

			statsService := service.NewStatsService(db.GetDuckDBWithContext(ctx))
			for _, table := range tables {
				st, err := statsService.TableStats(ctx, table)
				if err != nil {
					zap.S().Errorf("统计 %s 失败:%s", table, err.Error())
					return
				}
				zap.S().Infof("%s: 共 %d 条", table, st.Total)
				zap.S().Infof("  按类型: %v", st.ByType)
				zap.S().Infof("  按模型: %v", st.ByGenerator)
				zap.S().Infof("  准确率分布(%d 档): %v", service.PrecisionBins, st.PrecisionHistogram)
				zap.S().Infof("  平均关键词 %.2f 个, 出现 %.2f 个, 判为幻觉 %.2f 个",
					st.AvgKeywords, st.AvgAppearedKeywords, st.AvgHallucinatedKeywords)
			}

			if !rates {
				return
			}
			res, err := statsService.HallucinationRates(ctx, StageKeywordHallucinated, StageUnhallucinated)
			if err != nil {
				zap.S().Errorf("统计幻觉比例失败:%s", err.Error())
				return
			}
			for _, r := range res {
				zap.S().Infof("%s: %4d / %4d = %6.2f%%", r.Type, r.Hallucinated, r.Total, r.Rate()*100)
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringSliceVarP(&tables, "table", "t", []string{StageCandidates}, "要统计的表，可重复指定")
	cmd.Flags().BoolVarP(&rates, "rates", "r", false, "统计 keyword_hallucinated 与 unhallucinated 两张表的幻觉比例")
	return cmd
}
