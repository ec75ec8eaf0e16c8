package service

import (
	"context"

	"news-hallucination/pkg/model"
	"news-hallucination/pkg/store"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ParseAnnotationExport 解析标注平台导出的任务数组，修正数为所有标注 result 条目之和
func ParseAnnotationExport(data []byte) ([]model.AnnotationTask, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("标注导出文件不是合法 JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("标注导出文件应为任务数组")
	}
	tasks := make([]model.AnnotationTask, 0)
	var parseErr error
	root.ForEach(func(_, obj gjson.Result) bool {
		filename := obj.Get("data.filename")
		if !filename.Exists() || filename.String() == "" {
			parseErr = errors.Errorf("任务 %s 缺少 data.filename", obj.Get("id").String())
			return false
		}
		task := model.AnnotationTask{
			Filename:             filename.String(),
			TotalAnnotations:     int(obj.Get("total_annotations").Int()),
			CancelledAnnotations: int(obj.Get("cancelled_annotations").Int()),
		}
		obj.Get("annotations").ForEach(func(_, annot gjson.Result) bool {
			task.Corrections += len(annot.Get("result").Array())
			return true
		})
		tasks = append(tasks, task)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return tasks, nil
}

// BuildFinalRecord 未被判为幻觉的关键词记为合理
func BuildFinalRecord(r *model.JudgmentRecord) model.FinalHallucinationRecord {
	all := make(map[string]string, len(r.Keywords))
	for _, kw := range r.Keywords {
		all[kw] = r.Verdict(kw)
	}
	return model.FinalHallucinationRecord{
		Filename:                 r.Filename,
		HeadLine:                 r.HeadLine,
		BroadcastDate:            r.BroadcastDate,
		Type:                     r.Type,
		NewsBeginning:            r.NewsBeginning,
		HallucinatedContinuation: r.CandidateHallucinatedContinuation,
		AppearedKeywords:         r.AppearedKeywords,
		AllKeywords:              all,
		NewsRemainder:            r.NewsRemainder,
	}
}

// FinalizeReport 人工确认结果统计
type FinalizeReport struct {
	Graduated int
	Rejected  int
	Skipped   int // 已写入过
}

// Finalize 只保留人工确认无误的机器标注，写入最终幻觉数据目录
func Finalize(ctx context.Context, tasks []model.AnnotationTask, machine, target *store.JSONStore) (FinalizeReport, error) {
	var report FinalizeReport
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !task.Graduates() {
			report.Rejected++
			continue
		}
		var record model.JudgmentRecord
		if err := machine.Read(task.Filename, &record); err != nil {
			return report, errors.Wrapf(err, "读取机器标注 %s 失败", task.Filename)
		}
		written, err := target.WriteOnce(task.Filename, BuildFinalRecord(&record))
		if err != nil {
			return report, err
		}
		if written {
			report.Graduated++
		} else {
			report.Skipped++
		}
	}
	zap.S().Infof("最终幻觉数据: 确认 %d 篇, 未通过 %d 篇, 已存在 %d 篇", report.Graduated, report.Rejected, report.Skipped)
	return report, nil
}
