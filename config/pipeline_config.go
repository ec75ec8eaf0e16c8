package config

import (
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// ReferenceRemainder 以新闻剩余部分作为关键词准确率的参考文本
	ReferenceRemainder = "remainder"
	// ReferenceArticle 以整篇文章对象的序列化文本作为参考（旧行为）
	ReferenceArticle = "article"
)

type PipelineConfig struct {
	CandidatesDir         string `json:"candidatesDir" yaml:"candidatesDir"`
	MachineAnnotationsDir string `json:"machineAnnotationsDir" yaml:"machineAnnotationsDir"`
	PreAnnotationsDir     string `json:"preAnnotationsDir" yaml:"preAnnotationsDir"`
	HallucinationsDir     string `json:"hallucinationsDir" yaml:"hallucinationsDir"`

	MinContinuationLength int    `json:"minContinuationLength" yaml:"minContinuationLength"`
	MaxContinuationLength int    `json:"maxContinuationLength" yaml:"maxContinuationLength"`
	TopK                  int    `json:"topK" yaml:"topK"`                               // 按流畅度只考虑前 K 个
	MinAppearedKeywords   int    `json:"minAppearedKeywords" yaml:"minAppearedKeywords"` // 出现的关键词至少数量
	ReferenceText         string `json:"referenceText" yaml:"referenceText"`             // remainder 或 article

	Concurrency int   `json:"concurrency" yaml:"concurrency"` // 同时处理的文章数，1 为顺序处理
	Shuffle     bool  `json:"shuffle" yaml:"shuffle"`
	Seed        int64 `json:"seed" yaml:"seed"` // 0 表示随机种子
}

func (p *PipelineConfig) Validate() []error {
	var errs = make([]error, 0)
	for name, dir := range map[string]string{
		"candidatesDir":         p.CandidatesDir,
		"machineAnnotationsDir": p.MachineAnnotationsDir,
		"preAnnotationsDir":     p.PreAnnotationsDir,
		"hallucinationsDir":     p.HallucinationsDir,
	} {
		if dir == "" {
			errs = append(errs, errors.Errorf("%s 不能为空", name))
		}
	}
	if p.MinContinuationLength < 0 || p.MaxContinuationLength < p.MinContinuationLength {
		errs = append(errs, errors.Errorf("续写长度范围无效: [%d,%d]", p.MinContinuationLength, p.MaxContinuationLength))
	}
	if p.TopK <= 0 {
		errs = append(errs, errors.Errorf("topK 必须大于 0"))
	}
	if p.MinAppearedKeywords < 0 {
		errs = append(errs, errors.Errorf("minAppearedKeywords 不能为负数"))
	}
	if p.ReferenceText != ReferenceRemainder && p.ReferenceText != ReferenceArticle {
		errs = append(errs, errors.Errorf("referenceText 只能是 %s 或 %s", ReferenceRemainder, ReferenceArticle))
	}
	if p.Concurrency <= 0 {
		errs = append(errs, errors.Errorf("concurrency 必须大于 0"))
	}
	return errs
}

// KeywordHallucinatedDir 机器判定存在幻觉关键词的输出目录
func (p *PipelineConfig) KeywordHallucinatedDir() string {
	return filepath.Join(p.MachineAnnotationsDir, "keyword_hallucinated")
}

// UnhallucinatedDir 机器判定不存在幻觉的输出目录
func (p *PipelineConfig) UnhallucinatedDir() string {
	return filepath.Join(p.MachineAnnotationsDir, "unhallucinated")
}

func NewDefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		CandidatesDir:         "./candidates",
		MachineAnnotationsDir: "./machine_annotations",
		PreAnnotationsDir:     "./label_studio_annotations/pre_annotations",
		HallucinationsDir:     "./hallucinations",
		MinContinuationLength: 20,
		MaxContinuationLength: 70,
		TopK:                  3,
		MinAppearedKeywords:   2,
		ReferenceText:         ReferenceRemainder,
		Concurrency:           1,
		Shuffle:               true,
	}
}
