package model

// AnnotationTask 人工标注平台导出的单篇标注结果
type AnnotationTask struct {
	Filename             string
	TotalAnnotations     int
	CancelledAnnotations int
	// Corrections 所有标注中修正操作的总数
	Corrections int
}

// Graduates 至少有一人标注、无人跳过、且没有任何修正时，机器判定被确认
func (t AnnotationTask) Graduates() bool {
	return t.TotalAnnotations >= 1 && t.CancelledAnnotations == 0 && t.Corrections == 0
}
