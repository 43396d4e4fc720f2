package repository

import (
	"context"

	"github.com/nsxzhou1114/posttag-api/internal/model"
	"gorm.io/gorm"
)

// tagSortColumns 标签允许排序的字段
var tagSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"slug":       "slug",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// TagRepository 标签存储
type TagRepository struct {
	*gormRepository[model.Tag, uint]
}

// NewTagRepository 创建标签存储
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{
		gormRepository: newGormRepository(db, func(t *model.Tag) uint { return t.ID }),
	}
}

// FindAll 按排序条件查询全部标签
func (r *TagRepository) FindAll(ctx context.Context, sort *Sort) ([]model.Tag, error) {
	query, err := sort.apply(r.db.WithContext(ctx).Model(&model.Tag{}), tagSortColumns)
	if err != nil {
		return nil, err
	}

	tags := make([]model.Tag, 0)
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
