package repository

import (
	"context"

	"github.com/nsxzhou1114/posttag-api/internal/model"
	"gorm.io/gorm"
)

// PostRepository 文章存储
type PostRepository struct {
	*gormRepository[model.Post, uint]
}

// NewPostRepository 创建文章存储
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{
		gormRepository: newGormRepository(db, func(p *model.Post) uint { return p.ID }),
	}
}

// FindIDsAfter 按主键翻页，返回大于afterID的最多limit个文章ID
func (r *PostRepository) FindIDsAfter(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	ids := make([]uint, 0, limit)
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
