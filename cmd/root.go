package cmd

import (
	"news-hallucination/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "news-hallucination",
		Short: "新闻续写幻觉数据集构建工具",
		Long:  "预处理新闻语料，多模型续写并筛选候选幻觉，机器判断关键词幻觉，导入导出人工标注结果",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
	}

	rootCmd.AddCommand(NewPreprocessCommand())
	rootCmd.AddCommand(NewCandidatesCommand())
	rootCmd.AddCommand(NewAnnotateCommand())
	rootCmd.AddCommand(NewPreAnnotateCommand())
	rootCmd.AddCommand(NewFinalizeCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewStatsCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		zap.S().Info("按顺序执行 preprocess、candidates、annotate、preannotate、finalize 子命令")
		cmd.Help()
	}
	rootCmd.Version = util.GetVersion().Version
	return rootCmd
}
