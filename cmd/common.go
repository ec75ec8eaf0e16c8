package cmd

import (
	"errors"
	"path/filepath"

	"news-hallucination/config"
	"news-hallucination/pkg/store"
	"news-hallucination/pkg/util"

	"go.uber.org/zap"
)

// loadConfig 读取并校验配置，按配置的级别重建日志。失败时已记录日志
func loadConfig(configFilePath string) (*config.GlobalConfig, bool) {
	cfg, err := config.TryLoadFromDisk(configFilePath)
	if err != nil {
		zap.S().Errorf("读取本地配置文件错误:%s", err.Error())
		return nil, false
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		zap.S().Errorf("本地配置文件验证错误:%s", errors.Join(errs...))
		return nil, false
	}
	if err := util.InitLogger(cfg.LogConfig.Level); err != nil {
		zap.S().Errorf("初始化日志错误:%s", err.Error())
		return nil, false
	}
	return cfg, true
}

// 各阶段输出目录的名称
const (
	StageProcessed           = "processed"
	StageCandidates          = "candidates"
	StageKeywordHallucinated = "keyword_hallucinated"
	StageUnhallucinated      = "unhallucinated"
	StagePreAnnotations      = "pre_annotations"
	StageHallucinations      = "hallucinations"
)

func stageDir(cfg *config.GlobalConfig, stage string) (string, bool) {
	p := cfg.PipelineConfig
	switch stage {
	case StageProcessed:
		return cfg.CorpusConfig.ProcessedDir, true
	case StageCandidates:
		return p.CandidatesDir, true
	case StageKeywordHallucinated:
		return p.KeywordHallucinatedDir(), true
	case StageUnhallucinated:
		return p.UnhallucinatedDir(), true
	case StagePreAnnotations:
		return p.PreAnnotationsDir, true
	case StageHallucinations:
		return p.HallucinationsDir, true
	}
	return "", false
}

func openStore(dir string) (*store.JSONStore, bool) {
	s, err := store.NewJSONStore(filepath.Clean(dir))
	if err != nil {
		zap.S().Errorf("打开目录错误:%s", err.Error())
		return nil, false
	}
	return s, true
}
