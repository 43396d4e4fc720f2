package service

import (
	"github.com/nsxzhou1114/posttag-api/internal/dto"
	"github.com/nsxzhou1114/posttag-api/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// GenerateTagResponse 生成标签响应DTO
func GenerateTagResponse(tag *model.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Slug:      tag.Slug,
		CreatedAt: tag.CreatedAt.Format(timeLayout),
		UpdatedAt: tag.UpdatedAt.Format(timeLayout),
	}
}

// GenerateTagResponses 批量生成标签响应DTO
func GenerateTagResponses(tags []model.Tag) []dto.TagResponse {
	resp := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		resp = append(resp, GenerateTagResponse(&tags[i]))
	}
	return resp
}

// GenerateTagWithCountResponse 生成带文章数的标签响应DTO
func GenerateTagWithCountResponse(tag *model.Tag, postCount int64) dto.TagWithCountResponse {
	return dto.TagWithCountResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Slug:      tag.Slug,
		PostCount: postCount,
		CreatedAt: tag.CreatedAt.Format(timeLayout),
		UpdatedAt: tag.UpdatedAt.Format(timeLayout),
	}
}

// GeneratePostResponses 批量生成文章响应DTO
func GeneratePostResponses(posts []model.Post) []dto.PostResponse {
	resp := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, dto.PostResponse{
			ID:        post.ID,
			Title:     post.Title,
			Status:    post.Status,
			CreatedAt: post.CreatedAt.Format(timeLayout),
			UpdatedAt: post.UpdatedAt.Format(timeLayout),
		})
	}
	return resp
}

// GeneratePostTagListResponse 生成关联列表响应DTO
func GeneratePostTagListResponse(postTags []model.PostTag) dto.PostTagListResponse {
	list := make([]dto.PostTagResponse, 0, len(postTags))
	for _, pt := range postTags {
		list = append(list, dto.PostTagResponse{
			ID:        pt.ID,
			PostID:    pt.PostID,
			TagID:     pt.TagID,
			CreatedAt: pt.CreatedAt.Format(timeLayout),
		})
	}
	return dto.PostTagListResponse{Total: len(list), List: list}
}
