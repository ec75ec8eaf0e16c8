package model

// CandidateRecord 候选幻觉续写，每篇文章最多一条，写入后不再修改
type CandidateRecord struct {
	Article
	CandidateHallucinatedContinuation string   `json:"candidateHallucinatedContinuation"`
	KeywordPrecision                  float64  `json:"keywordPrecision"`
	AppearedKeywords                  []string `json:"appearedKeywords"`
	Keywords                          []string `json:"keywords"`
	GeneratedBy                       string   `json:"generatedBy"`
}

// JudgmentRecord 机器标注结果。不在 HallucinatedKeywords 中的关键词视为合理。
type JudgmentRecord struct {
	CandidateRecord
	HallucinatedKeywords map[string]string `json:"hallucinatedKeywords,omitempty"`
}

// Verdict 返回关键词的判定，未判为幻觉的关键词返回 "合理"
func (r *JudgmentRecord) Verdict(keyword string) string {
	if v, ok := r.HallucinatedKeywords[keyword]; ok {
		return v
	}
	return VerdictReasonable
}

// VerdictReasonable 合理
const VerdictReasonable = "合理"

// VerdictUnreasonablePrefix 判定不合理的前缀
const VerdictUnreasonablePrefix = "不合理"

// PreAnnotation 导入人工标注平台的预标注数据
type PreAnnotation struct {
	Filename                          string `json:"filename"`
	NewsBeginning                     string `json:"newsBeginning"`
	CandidateHallucinatedContinuation string `json:"candidateHallucinatedContinuation"`
	ToAnnotate                        string `json:"toAnnotate"`
	NewsRemainder                     string `json:"newsRemainder"`
}

// FinalHallucinationRecord 人工确认后的最终幻觉数据
type FinalHallucinationRecord struct {
	Filename                 string            `json:"filename"`
	HeadLine                 string            `json:"headLine"`
	BroadcastDate            string            `json:"broadcastDate"`
	Type                     string            `json:"type"`
	NewsBeginning            string            `json:"newsBeginning"`
	HallucinatedContinuation string            `json:"hallucinatedContinuation"`
	AppearedKeywords         []string          `json:"appearedKeywords"`
	AllKeywords              map[string]string `json:"allKeywords"`
	NewsRemainder            string            `json:"newsRemainder"`
}
