package cmd

import (
	"news-hallucination/config"
	"news-hallucination/pkg/llm"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"
	"news-hallucination/pkg/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewAnnotateCommand() *cobra.Command {
	var configFilePath string
	var limit int

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "机器判断候选续写中的幻觉关键词",
		Long:  "用判断模型逐个检查候选续写中的关键词，结果分别写入 keyword_hallucinated 与 unhallucinated 目录",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}
			if cfg.Judge == nil || !cfg.Judge.Can(config.CapabilityJudge) {
				zap.S().Error("judge 未配置或不支持幻觉判断")
				return
			}

			ctx := signals.SetupSignalHandler()

			judge, err := llm.New(cfg.Judge, cfg.RetryConfig)
			if err != nil {
				zap.S().Errorf("创建判断模型错误:%s", err.Error())
				return
			}
			source, ok := openStore(cfg.PipelineConfig.CandidatesDir)
			if !ok {
				return
			}
			hallucinated, ok := openStore(cfg.PipelineConfig.KeywordHallucinatedDir())
			if !ok {
				return
			}
			unhallucinated, ok := openStore(cfg.PipelineConfig.UnhallucinatedDir())
			if !ok {
				return
			}

			candidates, err := store.LoadAll[*model.CandidateRecord](source)
			if err != nil {
				zap.S().Errorf("读取候选续写错误:%s", err.Error())
				return
			}
			if cfg.PipelineConfig.Shuffle {
				store.Shuffle(candidates, cfg.PipelineConfig.Seed)
			}
			if limit > 0 && limit < len(candidates) {
				candidates = candidates[:limit]
			}

			annotator := &service.Annotator{
				Judge:          judge,
				Hallucinated:   hallucinated,
				Unhallucinated: unhallucinated,
				Concurrency:    cfg.PipelineConfig.Concurrency,
			}
			if _, err := annotator.Run(ctx, candidates); err != nil {
				zap.S().Errorf("机器标注中断:%s", err.Error())
				return
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "本次最多处理的候选数，0 表示全部")
	return cmd
}
