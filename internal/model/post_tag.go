package model

// PostTag 文章-标签关联模型
//
// 关联的身份由 (PostID, TagID) 决定，ID 只用于批量删除。
type PostTag struct {
	Base
	PostID uint `gorm:"type:int(11);not null;uniqueIndex:uk_post_tag" json:"post_id"`
	TagID  uint `gorm:"type:int(11);not null;uniqueIndex:uk_post_tag;index" json:"tag_id"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "post_tags"
}

// PostTagKey 关联的复合键
type PostTagKey struct {
	PostID uint
	TagID  uint
}

// Key 返回关联的复合键
func (pt PostTag) Key() PostTagKey {
	return PostTagKey{PostID: pt.PostID, TagID: pt.TagID}
}

// Equal 按 (PostID, TagID) 判断两个关联是否相同
func (pt PostTag) Equal(other PostTag) bool {
	return pt.Key() == other.Key()
}
