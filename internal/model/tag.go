package model

// Tag 标签模型
type Tag struct {
	Base
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Slug string `gorm:"type:varchar(50);not null;uniqueIndex" json:"slug"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
