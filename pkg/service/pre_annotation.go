package service

import (
	"context"
	"fmt"
	"strings"

	"news-hallucination/pkg/model"
	"news-hallucination/pkg/store"

	"go.uber.org/zap"
)

// BuildPreAnnotation 转为标注平台展示格式：段落之间空一行，每个关键词一行 "关键词 - 判定"
func BuildPreAnnotation(r *model.JudgmentRecord) model.PreAnnotation {
	lines := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		lines = append(lines, fmt.Sprintf("%s - %s", kw, r.Verdict(kw)))
	}
	return model.PreAnnotation{
		Filename:                          r.Filename,
		NewsBeginning:                     paragraphs(fmt.Sprintf("《%s》 %s\n%s", r.HeadLine, r.BroadcastDate, r.NewsBeginning)),
		CandidateHallucinatedContinuation: strings.TrimSpace(r.CandidateHallucinatedContinuation),
		ToAnnotate:                        strings.Join(lines, "\n"),
		NewsRemainder:                     paragraphs(r.NewsRemainder),
	}
}

func paragraphs(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", "\n\n"))
}

// ExportPreAnnotations 把机器判定有幻觉的记录导出为预标注文件，返回新写入数量
func ExportPreAnnotations(ctx context.Context, source, target *store.JSONStore) (int, error) {
	records, err := store.LoadAll[model.JudgmentRecord](source)
	if err != nil {
		return 0, err
	}
	written := 0
	for i := range records {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		ok, err := target.WriteOnce(records[i].Filename, BuildPreAnnotation(&records[i]))
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	zap.S().Infof("预标注导出完成: 共 %d 篇, 新写入 %d 篇", len(records), written)
	return written, nil
}
