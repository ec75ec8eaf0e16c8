package model

import (
	"encoding/json"
	"fmt"

	"news-hallucination/pkg/sentence"
)

// 文章类型
const (
	TypeDocument  = "doc" // 文档密集型
	TypeNumber    = "num" // 数字密集型
	TypeKnowledge = "kno" // 知识密集型
	TypeGeneral   = "gen" // 通用
)

// Article 表示预处理后的一篇新闻，创建后不再修改
type Article struct {
	Filename      string `json:"filename"`
	HeadLine      string `json:"headLine"`
	BroadcastDate string `json:"broadcastDate"`
	Type          string `json:"type"`
	NewsBeginning string `json:"newsBeginning"`
	NewsRemainder string `json:"newsRemainder"`
}

// Context 返回续写与流畅度打分共用的上文：标题、日期（前 10 个字符）、开头
func (a *Article) Context() string {
	return fmt.Sprintf("《%s》\n%s\n%s", a.HeadLine, sentence.Prefix(a.BroadcastDate, 10), a.NewsBeginning)
}

// Serialize 返回整篇文章对象的序列化文本，仅用于旧版关键词准确率参考文本
func (a *Article) Serialize() string {
	b, err := json.Marshal(a)
	if err != nil {
		return a.HeadLine + a.BroadcastDate + a.NewsBeginning + a.NewsRemainder
	}
	return string(b)
}
