package cmd

import (
	"errors"

	"news-hallucination/config"
	"news-hallucination/pkg/llm"
	"news-hallucination/pkg/model"
	"news-hallucination/pkg/service"
	"news-hallucination/pkg/signals"
	"news-hallucination/pkg/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCandidatesCommand() *cobra.Command {
	var configFilePath string
	var limit int

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "生成候选幻觉续写",
		Long:  "多个模型续写每篇文章的开头，按流畅度排序后取关键词准确率最低的续写作为候选幻觉",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, ok := loadConfig(configFilePath)
			if !ok {
				return
			}
			if len(cfg.Generators) == 0 {
				zap.S().Error("未配置续写模型 generators")
				return
			}
			if cfg.Extractor == nil || !cfg.Extractor.Can(config.CapabilityExtract) {
				zap.S().Error("extractor 未配置或不支持关键词抽取")
				return
			}
			if cfg.RewardConfig == nil {
				zap.S().Error("奖励模型配置未设置")
				return
			}
			if errs := cfg.RewardConfig.Validate(); len(errs) > 0 {
				zap.S().Errorf("奖励模型配置错误:%s", errors.Join(errs...))
				return
			}

			ctx := signals.SetupSignalHandler()

			generators := make([]service.Generator, 0, len(cfg.Generators))
			for _, b := range cfg.Generators {
				m, err := llm.New(b, cfg.RetryConfig)
				if err != nil {
					zap.S().Errorf("创建续写模型 %s 错误:%s", b.Name, err.Error())
					return
				}
				generators = append(generators, m)
			}
			extractor, err := llm.New(cfg.Extractor, cfg.RetryConfig)
			if err != nil {
				zap.S().Errorf("创建关键词抽取模型错误:%s", err.Error())
				return
			}

			processed, ok := openStore(cfg.CorpusConfig.ProcessedDir)
			if !ok {
				return
			}
			candidates, ok := openStore(cfg.PipelineConfig.CandidatesDir)
			if !ok {
				return
			}
			articles, err := store.LoadAll[*model.Article](processed)
			if err != nil {
				zap.S().Errorf("读取预处理文章错误:%s", err.Error())
				return
			}
			if cfg.PipelineConfig.Shuffle {
				store.Shuffle(articles, cfg.PipelineConfig.Seed)
			}
			if limit > 0 && limit < len(articles) {
				articles = articles[:limit]
			}
			zap.S().Infof("共 %d 篇文章，续写模型 %d 个", len(articles), len(generators))

			// 已在截取前打乱
			opts := *cfg.PipelineConfig
			opts.Shuffle = false
			selector := &service.CandidateSelector{
				Generators: generators,
				Scorer:     llm.NewRewardModel(cfg.RewardConfig),
				Precision:  service.NewPrecisionScorer(extractor),
				Store:      candidates,
				Options:    &opts,
			}
			if _, err := selector.Run(ctx, articles); err != nil {
				zap.S().Errorf("候选生成中断:%s", err.Error())
				return
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "本次最多处理的文章数，0 表示全部")
	return cmd
}
