package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nsxzhou1114/posttag-api/internal/database"
	"github.com/nsxzhou1114/posttag-api/internal/dto"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
	"go.uber.org/zap"
)

// ErrInvalidArgument 必填参数缺失，在访问存储之前返回
var ErrInvalidArgument = errors.New("invalid argument")

var (
	postTagService     *PostTagService
	postTagServiceOnce sync.Once
)

// PostStore 文章存储
type PostStore interface {
	repository.Repository[model.Post, uint]
}

// TagStore 标签存储
type TagStore interface {
	repository.Repository[model.Tag, uint]
	FindAll(ctx context.Context, sortSpec *repository.Sort) ([]model.Tag, error)
}

// PostTagStore 文章-标签关联存储
type PostTagStore interface {
	repository.Repository[model.PostTag, uint]
	FindAllTagIDsByPostID(ctx context.Context, postID uint) ([]uint, error)
	FindAllPostIDsByTagID(ctx context.Context, tagID uint) ([]uint, error)
	FindAllByPostIDIn(ctx context.Context, postIDs []uint) ([]model.PostTag, error)
	FindAllByPostID(ctx context.Context, postID uint) ([]model.PostTag, error)
	FindAllByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error)
	DeleteByPostID(ctx context.Context, postID uint) ([]model.PostTag, error)
	DeleteByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error)
	CountByTagIDs(ctx context.Context, tagIDs []uint) (map[uint]int64, error)
}

// PostTagService 文章-标签关联服务
//
// 服务本身不保存状态。同一文章的并发更新没有加锁，以最后一次写入为准。
type PostTagService struct {
	postTags PostTagStore
	posts    PostStore
	tags     TagStore
	logger   *zap.SugaredLogger
}

// NewPostTagService 创建文章-标签关联服务
func NewPostTagService(postTags PostTagStore, posts PostStore, tags TagStore) *PostTagService {
	return &PostTagService{
		postTags: postTags,
		posts:    posts,
		tags:     tags,
		logger:   logger.GetSugaredLogger(),
	}
}

// GetPostTagService 获取基于全局数据库的服务实例
func GetPostTagService() *PostTagService {
	postTagServiceOnce.Do(func() {
		db := database.GetDB()
		postTagService = NewPostTagService(
			repository.NewPostTagRepository(db),
			repository.NewPostRepository(db),
			repository.NewTagRepository(db),
		)
	})
	return postTagService
}

func requirePostID(postID uint) error {
	if postID == 0 {
		return fmt.Errorf("%w: 文章ID不能为空", ErrInvalidArgument)
	}
	return nil
}

func requireTagID(tagID uint) error {
	if tagID == 0 {
		return fmt.Errorf("%w: 标签ID不能为空", ErrInvalidArgument)
	}
	return nil
}

// ListTagsByPostID 获取文章的标签
func (s *PostTagService) ListTagsByPostID(ctx context.Context, postID uint) ([]model.Tag, error) {
	if err := requirePostID(postID); err != nil {
		return nil, err
	}

	tagIDs, err := s.postTags.FindAllTagIDsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.tags.FindAllByID(ctx, tagIDs)
}

// ListTagsWithPostCount 获取全部标签及各自关联的文章数
func (s *PostTagService) ListTagsWithPostCount(ctx context.Context, sortSpec *repository.Sort) ([]dto.TagWithCountResponse, error) {
	if sortSpec == nil {
		return nil, fmt.Errorf("%w: 排序信息不能为空", ErrInvalidArgument)
	}

	tags, err := s.tags.FindAll(ctx, sortSpec)
	if err != nil {
		return nil, err
	}

	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	// 一次分组聚合拿到所有标签的文章数，没有关联的标签计为0
	counts, err := s.postTags.CountByTagIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TagWithCountResponse, 0, len(tags))
	for i := range tags {
		resp = append(resp, GenerateTagWithCountResponse(&tags[i], counts[tags[i].ID]))
	}
	return resp, nil
}

// ListTagListMapByPostIDs 批量获取多篇文章的标签，按文章ID分组
//
// 无论涉及多少标签，只查询一次关联表和一次标签表。
func (s *PostTagService) ListTagListMapByPostIDs(ctx context.Context, postIDs []uint) (map[uint][]model.Tag, error) {
	tagListMap := make(map[uint][]model.Tag)
	if len(postIDs) == 0 {
		return tagListMap, nil
	}

	postTags, err := s.postTags.FindAllByPostIDIn(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	tags, err := s.tags.FindAllByID(ctx, distinctTagIDs(postTags))
	if err != nil {
		return nil, err
	}

	tagMap := make(map[uint]model.Tag, len(tags))
	for _, tag := range tags {
		tagMap[tag.ID] = tag
	}

	for _, postTag := range postTags {
		tag, ok := tagMap[postTag.TagID]
		if !ok {
			// 标签已被删除但关联还在
			continue
		}
		tagListMap[postTag.PostID] = append(tagListMap[postTag.PostID], tag)
	}
	return tagListMap, nil
}

// ListPostsByTagID 获取标签下的文章
func (s *PostTagService) ListPostsByTagID(ctx context.Context, tagID uint) ([]model.Post, error) {
	if err := requireTagID(tagID); err != nil {
		return nil, err
	}

	postIDs, err := s.postTags.FindAllPostIDsByTagID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	return s.posts.FindAllByID(ctx, postIDs)
}

// MergeOrCreateByIfAbsent 把文章的标签关联调整为tagIDs，返回调整后的全部关联
//
// tagIDs为空时直接返回空列表，不会删除已有关联。
func (s *PostTagService) MergeOrCreateByIfAbsent(ctx context.Context, postID uint, tagIDs []uint) ([]model.PostTag, error) {
	if err := requirePostID(postID); err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []model.PostTag{}, nil
	}

	staged, err := stagePostTags(postID, tagIDs)
	if err != nil {
		return nil, err
	}

	postTags, err := s.postTags.FindAllByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	stagedKeys := keySet(staged)
	currentKeys := keySet(postTags)

	var toRemove, kept, toCreate []model.PostTag
	for _, postTag := range postTags {
		if _, ok := stagedKeys[postTag.Key()]; ok {
			kept = append(kept, postTag)
		} else {
			toRemove = append(toRemove, postTag)
		}
	}
	for _, postTag := range staged {
		if _, ok := currentKeys[postTag.Key()]; !ok {
			toCreate = append(toCreate, postTag)
		}
	}

	if len(toRemove) > 0 {
		if err := s.postTags.DeleteAll(ctx, toRemove); err != nil {
			return nil, err
		}
	}

	var created []model.PostTag
	if len(toCreate) > 0 {
		created, err = s.postTags.CreateInBatch(ctx, toCreate)
		if err != nil {
			return nil, err
		}
	}

	if len(toRemove) > 0 || len(created) > 0 {
		s.logger.Infof("文章 %d 标签已更新: 删除 %d 个, 新增 %d 个", postID, len(toRemove), len(created))
	}

	result := make([]model.PostTag, 0, len(kept)+len(created))
	result = append(result, kept...)
	result = append(result, created...)
	return result, nil
}

// ListByPostID 获取文章的全部关联
func (s *PostTagService) ListByPostID(ctx context.Context, postID uint) ([]model.PostTag, error) {
	if err := requirePostID(postID); err != nil {
		return nil, err
	}
	return s.postTags.FindAllByPostID(ctx, postID)
}

// ListByTagID 获取标签的全部关联
func (s *PostTagService) ListByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error) {
	if err := requireTagID(tagID); err != nil {
		return nil, err
	}
	return s.postTags.FindAllByTagID(ctx, tagID)
}

// ListTagIDsByPostID 获取文章的标签ID
func (s *PostTagService) ListTagIDsByPostID(ctx context.Context, postID uint) ([]uint, error) {
	if err := requirePostID(postID); err != nil {
		return nil, err
	}
	return s.postTags.FindAllTagIDsByPostID(ctx, postID)
}

// RemoveByPostID 删除文章的全部关联，返回被删除的关联
func (s *PostTagService) RemoveByPostID(ctx context.Context, postID uint) ([]model.PostTag, error) {
	if err := requirePostID(postID); err != nil {
		return nil, err
	}
	return s.postTags.DeleteByPostID(ctx, postID)
}

// RemoveByTagID 删除标签的全部关联，返回被删除的关联
func (s *PostTagService) RemoveByTagID(ctx context.Context, tagID uint) ([]model.PostTag, error) {
	if err := requireTagID(tagID); err != nil {
		return nil, err
	}
	return s.postTags.DeleteByTagID(ctx, tagID)
}

// stagePostTags 按去重后的升序标签ID构建目标关联
func stagePostTags(postID uint, tagIDs []uint) ([]model.PostTag, error) {
	unique := make(map[uint]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if err := requireTagID(tagID); err != nil {
			return nil, err
		}
		unique[tagID] = struct{}{}
	}

	ids := make([]uint, 0, len(unique))
	for tagID := range unique {
		ids = append(ids, tagID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	staged := make([]model.PostTag, 0, len(ids))
	for _, tagID := range ids {
		staged = append(staged, model.PostTag{PostID: postID, TagID: tagID})
	}
	return staged, nil
}

func keySet(postTags []model.PostTag) map[model.PostTagKey]struct{} {
	keys := make(map[model.PostTagKey]struct{}, len(postTags))
	for _, postTag := range postTags {
		keys[postTag.Key()] = struct{}{}
	}
	return keys
}

// distinctTagIDs 按出现顺序去重
func distinctTagIDs(postTags []model.PostTag) []uint {
	seen := make(map[uint]struct{}, len(postTags))
	ids := make([]uint, 0, len(postTags))
	for _, postTag := range postTags {
		if _, ok := seen[postTag.TagID]; ok {
			continue
		}
		seen[postTag.TagID] = struct{}{}
		ids = append(ids, postTag.TagID)
	}
	return ids
}
