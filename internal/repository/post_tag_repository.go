package repository

import (
	"context"

	"github.com/nsxzhou1114/posttag-api/internal/model"
	"gorm.io/gorm"
)

// PostTagRepository 文章-标签关联存储
type PostTagRepository struct {
	*gormRepository[model.PostTag, uint]
}

// NewPostTagRepository 创建关联存储
func NewPostTagRepository(db *gorm.DB) *PostTagRepository {
	return &PostTagRepository{
		gormRepository: newGormRepository(db, func(pt *model.PostTag) uint { return pt.ID }),
	}
}

// FindAllTagIDsByPostID 查询文章关联的标签ID（去重、升序）
func (r *PostTagRepository) FindAllTagIDsByPostID(ctx context.Context, postID uint) ([]uint, error) {
	return r.pluckDistinct(ctx, "tag_id", "post_id = ?", postID)
}

// FindAllPostIDsByTagID 查询标签关联的文章ID（去重、升序）
func (r *PostTagRepository) FindAllPostIDsByTagID(ctx context.Context, tagID uint) ([]uint, error) {
	return r.pluckDistinct(ctx, "post_id", "tag_id = ?", tagID)
}

func (r *PostTagRepository) pluckDistinct(ctx context.Context, column, query string, args ...interface{}) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).
		Model(&model.PostTag{}).
		Where(query, args...).
		Distinct().
		Order(column).
		Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAllByPostIDIn 查询多篇文章的全部关联
func (r *PostTagRepository) FindAllByPostIDIn(ctx context.Context, postIDs []uint) ([]model.PostTag, error) {
	if len(postIDs) == 0 {
		return []model.PostTag{}, nil
	}
	return r.findWhere(ctx, "post_id IN ?", postIDs)
}

// FindAllByPostID 查询文章的全部关联
func (r *PostTagRepository) FindAllByPostID(ctx context.Context, postID uint) ([]model.PostTag, error) {
	return r.findWhere(ctx, "post_id = ?", postID)
}

// FindAllByTagID 查询标签的全部关联
func (r *PostTagRepository) FindAllByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error) {
	return r.findWhere(ctx, "tag_id = ?", tagID)
}

func (r *PostTagRepository) findWhere(ctx context.Context, query string, args ...interface{}) ([]model.PostTag, error) {
	postTags := make([]model.PostTag, 0)
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&postTags).Error; err != nil {
		return nil, err
	}
	return postTags, nil
}

// DeleteByPostID 删除文章的全部关联，返回被删除的记录
func (r *PostTagRepository) DeleteByPostID(ctx context.Context, postID uint) ([]model.PostTag, error) {
	return r.deleteWhere(ctx, "post_id = ?", postID)
}

// DeleteByTagID 删除标签的全部关联，返回被删除的记录
func (r *PostTagRepository) DeleteByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error) {
	return r.deleteWhere(ctx, "tag_id = ?", tagID)
}

// deleteWhere 先查后删，只删除查到的记录
func (r *PostTagRepository) deleteWhere(ctx context.Context, query string, args ...interface{}) ([]model.PostTag, error) {
	deleted := make([]model.PostTag, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(query, args...).Order("id").Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(deleted))
		for _, pt := range deleted {
			ids = append(ids, pt.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&model.PostTag{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// tagPostCount 按标签聚合的文章数
type tagPostCount struct {
	TagID     uint
	PostCount int64
}

// CountByTagIDs 统计每个标签关联的文章数，没有关联的标签不在结果中
func (r *PostTagRepository) CountByTagIDs(ctx context.Context, tagIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(tagIDs))
	if len(tagIDs) == 0 {
		return counts, nil
	}

	var rows []tagPostCount
	err := r.db.WithContext(ctx).
		Model(&model.PostTag{}).
		Select("tag_id, COUNT(DISTINCT post_id) AS post_count").
		Where("tag_id IN ?", tagIDs).
		Group("tag_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TagID] = row.PostCount
	}
	return counts, nil
}
