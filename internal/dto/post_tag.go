package dto

// ReconcilePostTagsRequest 更新文章标签请求，tag_ids为空时不做任何修改
type ReconcilePostTagsRequest struct {
	TagIDs []uint `json:"tag_ids" binding:"omitempty,max=100,dive,min=1"`
}

// PostTagMapRequest 批量查询文章标签请求，post_ids为逗号分隔的文章ID
type PostTagMapRequest struct {
	PostIDs string `form:"post_ids" binding:"required,max=2000"`
}

// TagWithCountListRequest 标签（带文章数）列表请求
type TagWithCountListRequest struct {
	OrderBy string `form:"order_by" binding:"omitempty,oneof=id name slug created_at updated_at"`
	Order   string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// TagSearchRequest 按标签名搜索文章请求
type TagSearchRequest struct {
	Name string `form:"name" binding:"required,max=50"`
	Size int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// TagResponse 标签响应
type TagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TagWithCountResponse 带文章数的标签响应
type TagWithCountResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"post_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PostResponse 文章响应
type PostResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PostTagResponse 文章-标签关联响应
type PostTagResponse struct {
	ID        uint   `json:"id"`
	PostID    uint   `json:"post_id"`
	TagID     uint   `json:"tag_id"`
	CreatedAt string `json:"created_at"`
}

// PostTagListResponse 关联列表响应
type PostTagListResponse struct {
	Total int               `json:"total"`
	List  []PostTagResponse `json:"list"`
}

// TagSearchResponse 按标签名搜索文章响应
type TagSearchResponse struct {
	PostIDs []uint `json:"post_ids"`
}
