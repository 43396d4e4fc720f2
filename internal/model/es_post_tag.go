package model

import (
	"fmt"
	"time"
)

// ESPostTags Elasticsearch文章标签文档，每篇文章一个
type ESPostTags struct {
	ID        string    `json:"id"`        // ES文档ID，格式为"post_{mysql_id}"
	PostID    uint      `json:"post_id"`   // MySQL中的文章ID
	TagIDs    []uint    `json:"tag_ids"`   // 标签ID（用于过滤）
	TagNames  []string  `json:"tag_names"` // 标签名称（用于搜索）
	UpdatedAt time.Time `json:"updated_at"`
}

// NewESPostTags 根据文章ID和标签构建索引文档
func NewESPostTags(postID uint, tags []Tag) *ESPostTags {
	doc := &ESPostTags{
		ID:        ESPostTagsDocID(postID),
		PostID:    postID,
		TagIDs:    make([]uint, 0, len(tags)),
		TagNames:  make([]string, 0, len(tags)),
		UpdatedAt: time.Now(),
	}
	for _, tag := range tags {
		doc.TagIDs = append(doc.TagIDs, tag.ID)
		doc.TagNames = append(doc.TagNames, tag.Name)
	}
	return doc
}

// ESPostTagsDocID 文章标签文档ID
func ESPostTagsDocID(postID uint) string {
	return fmt.Sprintf("post_%d", postID)
}

// ESIndexName 返回ES索引名称
func (ESPostTags) ESIndexName() string {
	return "post_tags"
}

// ESMapping 返回ES索引映射
func (ESPostTags) ESMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 1,
			"analysis": {
				"analyzer": {
					"tag_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"post_id": { "type": "long" },
				"tag_ids": { "type": "long" },
				"tag_names": {
					"type": "text",
					"analyzer": "tag_analyzer",
					"fields": {
						"keyword": { "type": "keyword" }
					}
				},
				"updated_at": { "type": "date" }
			}
		}
	}`
}
