package model

// Post 文章模型，这里只保留关联所需的字段
type Post struct {
	Base
	Title  string `gorm:"type:varchar(255);not null" json:"title"`
	Status string `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // 状态: draft published
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
