package repository

import (
	"context"

	"gorm.io/gorm"
)

// defaultBatchSize 批量插入的单批条数
const defaultBatchSize = 100

// Repository 通用存储接口，按实体类型和主键类型参数化
type Repository[T any, ID comparable] interface {
	// FindAllByID 按主键批量查询，ids为空时不访问数据库
	FindAllByID(ctx context.Context, ids []ID) ([]T, error)
	// CreateInBatch 批量创建，返回带主键的实体
	CreateInBatch(ctx context.Context, entities []T) ([]T, error)
	// DeleteAll 按主键批量删除
	DeleteAll(ctx context.Context, entities []T) error
}

// gormRepository 基于GORM的通用实现
type gormRepository[T any, ID comparable] struct {
	db   *gorm.DB
	idOf func(*T) ID
}

func newGormRepository[T any, ID comparable](db *gorm.DB, idOf func(*T) ID) *gormRepository[T, ID] {
	return &gormRepository[T, ID]{db: db, idOf: idOf}
}

// FindAllByID 按主键批量查询
func (r *gormRepository[T, ID]) FindAllByID(ctx context.Context, ids []ID) ([]T, error) {
	entities := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return entities, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CreateInBatch 批量创建
func (r *gormRepository[T, ID]) CreateInBatch(ctx context.Context, entities []T) ([]T, error) {
	if len(entities) == 0 {
		return []T{}, nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&entities, defaultBatchSize).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// DeleteAll 按主键批量删除
func (r *gormRepository[T, ID]) DeleteAll(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	ids := make([]ID, 0, len(entities))
	for i := range entities {
		ids = append(ids, r.idOf(&entities[i]))
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(T)).Error
}
