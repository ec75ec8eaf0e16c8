package llm

import (
	"encoding/json"
	"strings"

	"news-hallucination/pkg/model"
)

// MarkKeywords 按给定顺序用 <kw></kw> 标注文本中的关键词。
// 若关键词是此前任一关键词的子串则跳过，避免嵌套标注；代价是这类关键词不会被标注。
func MarkKeywords(keywords []string, text string) string {
	for i, kw := range keywords {
		if kw == "" || containedInAny(kw, keywords[:i]) {
			continue
		}
		text = strings.ReplaceAll(text, kw, "<kw>"+kw+"</kw>")
	}
	return text
}

func containedInAny(kw string, earlier []string) bool {
	for _, e := range earlier {
		if strings.Contains(e, kw) {
			return true
		}
	}
	return false
}

// BuildJudgePrompt 组装关键词幻觉判断的提示词，事实参考为新闻剩余部分
func BuildJudgePrompt(keywords []string, candidate *model.CandidateRecord) string {
	return strings.NewReplacer(
		"{headLine}", candidate.HeadLine,
		"{broadcastDate}", candidate.BroadcastDate,
		"{newsBeginning}", candidate.NewsBeginning,
		"{candidateHallucinatedContinuation}", MarkKeywords(keywords, candidate.CandidateHallucinatedContinuation),
		"{newsRemainder}", candidate.NewsRemainder,
	).Replace(judgeTemplate)
}

// ParseVerdicts 解析 <result></result> 中的 JSON 判断结果，
// 只保留属于 keywords 且判定以 "不合理" 开头的条目。解析失败返回空映射。
func ParseVerdicts(response string, keywords []string) map[string]string {
	verdicts := make(map[string]string)
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(between(response, "<result>", "</result>"))), &raw); err != nil {
		return verdicts
	}
	allowed := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		allowed[kw] = struct{}{}
	}
	for k, v := range raw {
		if _, ok := allowed[k]; !ok {
			continue
		}
		if reason, ok := v.(string); ok && strings.HasPrefix(reason, model.VerdictUnreasonablePrefix) {
			verdicts[k] = reason
		}
	}
	return verdicts
}

// ParseKeywords 解析 <keywords></keywords> 中每行一个的关键词，
// 去掉空行以及不在原句中出现的关键词
func ParseKeywords(response, sentence string) []string {
	lines := strings.Split(between(response, "<keywords>", "</keywords>"), "\n")
	keywords := make([]string, 0, len(lines))
	for _, line := range lines {
		kw := strings.TrimSpace(line)
		if kw != "" && strings.Contains(sentence, kw) {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
