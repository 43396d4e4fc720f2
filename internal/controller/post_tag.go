package controller

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/dto"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
	"github.com/nsxzhou1114/posttag-api/internal/service"
	"github.com/nsxzhou1114/posttag-api/pkg/response"
	"go.uber.org/zap"
)

// maxPostIDs 批量查询文章标签时允许的最大文章数
const maxPostIDs = 200

// PostTagApi 文章-标签关联API控制器
type PostTagApi struct {
	logger  *zap.SugaredLogger
	service *service.PostTagService
	indexer service.PostTagIndexer
}

// NewPostTagApi 创建文章-标签关联API控制器
func NewPostTagApi(svc *service.PostTagService, indexer service.PostTagIndexer) *PostTagApi {
	if indexer == nil {
		indexer = service.NopPostTagIndexer()
	}
	return &PostTagApi{
		logger:  logger.GetSugaredLogger(),
		service: svc,
		indexer: indexer,
	}
}

// parseID 解析路径中的ID
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseIDList 解析逗号分隔的ID列表，忽略空项
func parseIDList(raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// handleError 参数错误返回400，其余返回500
func (api *PostTagApi) handleError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, repository.ErrInvalidSort):
		response.BadRequest(c, "参数错误", err)
	case errors.Is(err, service.ErrSearchDisabled):
		response.ServiceUnavailable(c, "搜索功能未启用", err)
	default:
		api.logger.Errorf("%s: %v", message, err)
		response.InternalServerError(c, message, err)
	}
}

// refreshIndex 写库成功后刷新搜索索引，失败只记录日志，由定时重建修复
func (api *PostTagApi) refreshIndex(ctx context.Context, postIDs []uint) {
	if len(postIDs) == 0 {
		return
	}
	if err := api.indexer.RefreshPosts(ctx, postIDs); err != nil {
		api.logger.Warnf("刷新文章标签索引失败, 文章: %v, 错误: %v", postIDs, err)
	}
}

// ListTags 获取文章的标签
func (api *PostTagApi) ListTags(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的文章ID", err)
		return
	}

	tags, err := api.service.ListTagsByPostID(c.Request.Context(), postID)
	if err != nil {
		api.handleError(c, "获取文章标签失败", err)
		return
	}

	response.Success(c, "获取成功", service.GenerateTagResponses(tags))
}

// ListTagIDs 获取文章的标签ID
func (api *PostTagApi) ListTagIDs(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的文章ID", err)
		return
	}

	tagIDs, err := api.service.ListTagIDsByPostID(c.Request.Context(), postID)
	if err != nil {
		api.handleError(c, "获取文章标签ID失败", err)
		return
	}

	response.Success(c, "获取成功", gin.H{"tag_ids": tagIDs})
}

// ListPostLinks 获取文章的关联记录
func (api *PostTagApi) ListPostLinks(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的文章ID", err)
		return
	}

	postTags, err := api.service.ListByPostID(c.Request.Context(), postID)
	if err != nil {
		api.handleError(c, "获取文章关联失败", err)
		return
	}

	response.Success(c, "获取成功", service.GeneratePostTagListResponse(postTags))
}

// ListTagsByPosts 批量获取文章标签，按文章ID分组
func (api *PostTagApi) ListTagsByPosts(c *gin.Context) {
	var req dto.PostTagMapRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, dto.FormatBindError(err), err)
		return
	}

	postIDs, err := parseIDList(req.PostIDs)
	if err != nil {
		response.BadRequest(c, "无效的文章ID列表", err)
		return
	}
	if len(postIDs) > maxPostIDs {
		response.BadRequest(c, "文章ID数量超出限制", nil)
		return
	}

	tagListMap, err := api.service.ListTagListMapByPostIDs(c.Request.Context(), postIDs)
	if err != nil {
		api.handleError(c, "批量获取文章标签失败", err)
		return
	}

	resp := make(map[uint][]dto.TagResponse, len(postIDs))
	for _, postID := range postIDs {
		resp[postID] = service.GenerateTagResponses(tagListMap[postID])
	}
	response.Success(c, "获取成功", resp)
}

// UpdateTags 把文章的标签调整为请求中的标签
func (api *PostTagApi) UpdateTags(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的文章ID", err)
		return
	}

	var req dto.ReconcilePostTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, dto.FormatBindError(err), err)
		return
	}

	postTags, err := api.service.MergeOrCreateByIfAbsent(c.Request.Context(), postID, req.TagIDs)
	if err != nil {
		api.handleError(c, "更新文章标签失败", err)
		return
	}

	if len(req.TagIDs) > 0 {
		api.refreshIndex(c.Request.Context(), []uint{postID})
	}
	response.Success(c, "更新成功", service.GeneratePostTagListResponse(postTags))
}

// RemovePostLinks 删除文章的全部标签关联
func (api *PostTagApi) RemovePostLinks(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的文章ID", err)
		return
	}

	removed, err := api.service.RemoveByPostID(c.Request.Context(), postID)
	if err != nil {
		api.handleError(c, "删除文章标签失败", err)
		return
	}

	api.refreshIndex(c.Request.Context(), []uint{postID})
	response.Success(c, "删除成功", service.GeneratePostTagListResponse(removed))
}

// ListTagsWithCount 获取全部标签及文章数
func (api *PostTagApi) ListTagsWithCount(c *gin.Context) {
	var req dto.TagWithCountListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, dto.FormatBindError(err), err)
		return
	}

	orderBy := req.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	direction, err := repository.ParseDirection(req.Order)
	if err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	sortSpec := repository.By(direction, orderBy)
	if orderBy != "id" {
		// 排序字段相同时按ID升序，保证结果稳定
		sortSpec = sortSpec.And(repository.By(repository.Asc, "id"))
	}

	tags, err := api.service.ListTagsWithPostCount(c.Request.Context(), sortSpec)
	if err != nil {
		api.handleError(c, "获取标签列表失败", err)
		return
	}

	response.Success(c, "获取成功", tags)
}

// ListPosts 获取标签下的文章
func (api *PostTagApi) ListPosts(c *gin.Context) {
	tagID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的标签ID", err)
		return
	}

	posts, err := api.service.ListPostsByTagID(c.Request.Context(), tagID)
	if err != nil {
		api.handleError(c, "获取标签文章失败", err)
		return
	}

	response.Success(c, "获取成功", service.GeneratePostResponses(posts))
}

// ListTagLinks 获取标签的关联记录
func (api *PostTagApi) ListTagLinks(c *gin.Context) {
	tagID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的标签ID", err)
		return
	}

	postTags, err := api.service.ListByTagID(c.Request.Context(), tagID)
	if err != nil {
		api.handleError(c, "获取标签关联失败", err)
		return
	}

	response.Success(c, "获取成功", service.GeneratePostTagListResponse(postTags))
}

// RemoveTagLinks 删除标签的全部文章关联
func (api *PostTagApi) RemoveTagLinks(c *gin.Context) {
	tagID, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "无效的标签ID", err)
		return
	}

	removed, err := api.service.RemoveByTagID(c.Request.Context(), tagID)
	if err != nil {
		api.handleError(c, "删除标签关联失败", err)
		return
	}

	api.refreshIndex(c.Request.Context(), postIDsOf(removed))
	response.Success(c, "删除成功", service.GeneratePostTagListResponse(removed))
}

// SearchPosts 按标签名搜索文章ID
func (api *PostTagApi) SearchPosts(c *gin.Context) {
	var req dto.TagSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, dto.FormatBindError(err), err)
		return
	}

	postIDs, err := api.indexer.SearchPostIDs(c.Request.Context(), req.Name, req.Size)
	if err != nil {
		api.handleError(c, "搜索文章失败", err)
		return
	}

	response.Success(c, "搜索成功", dto.TagSearchResponse{PostIDs: postIDs})
}

// postIDsOf 按出现顺序去重
func postIDsOf(postTags []model.PostTag) []uint {
	seen := make(map[uint]struct{}, len(postTags))
	ids := make([]uint, 0, len(postTags))
	for _, postTag := range postTags {
		if _, ok := seen[postTag.PostID]; ok {
			continue
		}
		seen[postTag.PostID] = struct{}{}
		ids = append(ids, postTag.PostID)
	}
	return ids
}
