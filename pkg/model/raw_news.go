package model

// RawNews 表示原始语料中的一条新闻，既可来自 JSON 文件，也可来自 MySQL 表
type RawNews struct {
	ID               uint   `gorm:"primarykey" json:"-"`
	HeadLine         string `gorm:"column:headLine" json:"headLine"`
	BroadcastDate    string `gorm:"column:broadcastDate" json:"broadcastDate"`
	Content          string `gorm:"column:content;type:text" json:"content"`
	NewsCategoryName string `gorm:"column:newsCategoryName" json:"newsCategoryName"`
}

// TableName 指定默认表名，可通过配置覆盖
func (RawNews) TableName() string {
	return "tbl_raw_news"
}
