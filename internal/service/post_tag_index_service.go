package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/nsxzhou1114/posttag-api/internal/database"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
	"go.uber.org/zap"
)

// reindexBatchSize 全量重建时每批处理的文章数
const reindexBatchSize = 500

// PostTagIndexer 维护文章标签搜索索引
type PostTagIndexer interface {
	// RefreshPosts 按当前关联重建指定文章的索引文档
	RefreshPosts(ctx context.Context, postIDs []uint) error
	// SearchPostIDs 按标签名搜索文章ID
	SearchPostIDs(ctx context.Context, tagName string, size int) ([]uint, error)
}

// ErrSearchDisabled 未启用Elasticsearch
var ErrSearchDisabled = errors.New("search disabled")

type nopPostTagIndexer struct{}

// NopPostTagIndexer 未启用Elasticsearch时使用，写入直接忽略
func NopPostTagIndexer() PostTagIndexer {
	return nopPostTagIndexer{}
}

func (nopPostTagIndexer) RefreshPosts(context.Context, []uint) error {
	return nil
}

func (nopPostTagIndexer) SearchPostIDs(context.Context, string, int) ([]uint, error) {
	return nil, ErrSearchDisabled
}

// PostIDPager 按主键翻页读取文章ID
type PostIDPager interface {
	FindIDsAfter(ctx context.Context, afterID uint, limit int) ([]uint, error)
}

var (
	postTagIndexService     *PostTagIndexService
	postTagIndexServiceOnce sync.Once
)

// PostTagIndexService 基于Elasticsearch的文章标签索引
type PostTagIndexService struct {
	esClient   *elasticsearch.Client
	postTags   *PostTagService
	posts      PostIDPager
	log        *zap.SugaredLogger
	indexName  string
	retryDelay time.Duration
}

// NewPostTagIndexService 创建文章标签索引服务
func NewPostTagIndexService(esClient *elasticsearch.Client, postTags *PostTagService, posts PostIDPager) *PostTagIndexService {
	return &PostTagIndexService{
		esClient:   esClient,
		postTags:   postTags,
		posts:      posts,
		log:        logger.GetSugaredLogger(),
		indexName:  model.ESPostTags{}.ESIndexName(),
		retryDelay: 500 * time.Millisecond,
	}
}

// GetPostTagIndexService 获取基于全局客户端的索引服务实例
func GetPostTagIndexService() *PostTagIndexService {
	postTagIndexServiceOnce.Do(func() {
		postTagIndexService = NewPostTagIndexService(
			database.GetES(),
			GetPostTagService(),
			repository.NewPostRepository(database.GetDB()),
		)
	})
	return postTagIndexService
}

// RefreshPosts 用一次bulk请求写入指定文章的标签文档，没有标签的文章写入空文档
func (s *PostTagIndexService) RefreshPosts(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}

	tagListMap, err := s.postTags.ListTagListMapByPostIDs(ctx, postIDs)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	for _, postID := range postIDs {
		doc := model.NewESPostTags(postID, tagListMap[postID])
		meta := map[string]map[string]string{
			"index": {"_index": s.indexName, "_id": doc.ID},
		}
		if err := writeNDJSON(&body, meta, doc); err != nil {
			return err
		}
	}

	return s.bulk(ctx, body.Bytes())
}

func writeNDJSON(w *bytes.Buffer, lines ...interface{}) error {
	for _, line := range lines {
		data, err := json.Marshal(line)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

// bulk 发送bulk请求，网络错误和5xx会重试
func (s *PostTagIndexService) bulk(ctx context.Context, payload []byte) error {
	return retry.Do(
		func() error {
			req := esapi.BulkRequest{
				Body:    bytes.NewReader(payload),
				Refresh: "true",
			}
			res, err := req.Do(ctx, s.esClient)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			if res.IsError() {
				err := fmt.Errorf("写入文章标签索引失败: %s", res.String())
				if res.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			var r struct {
				Errors bool `json:"errors"`
			}
			if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
				return retry.Unrecoverable(err)
			}
			if r.Errors {
				return retry.Unrecoverable(errors.New("文章标签索引部分文档写入失败"))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warnf("写入文章标签索引重试(%d): %v", n+1, err)
		}),
	)
}

// Reindex 分批重建所有文章的标签文档，返回处理的文章数
func (s *PostTagIndexService) Reindex(ctx context.Context) (int, error) {
	var (
		afterID uint
		total   int
	)
	for {
		ids, err := s.posts.FindIDsAfter(ctx, afterID, reindexBatchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			break
		}
		if err := s.RefreshPosts(ctx, ids); err != nil {
			return total, fmt.Errorf("重建文章 %d 之后的索引失败: %w", afterID, err)
		}
		total += len(ids)
		afterID = ids[len(ids)-1]
	}

	s.log.Infof("文章标签索引重建完成，共 %d 篇文章", total)
	return total, nil
}

// SearchPostIDs 按标签名搜索文章ID
func (s *PostTagIndexService) SearchPostIDs(ctx context.Context, tagName string, size int) ([]uint, error) {
	if strings.TrimSpace(tagName) == "" {
		return nil, fmt.Errorf("%w: 标签名不能为空", ErrInvalidArgument)
	}
	if size <= 0 {
		size = 20
	}

	query := map[string]interface{}{
		"size":    size,
		"_source": []string{"post_id"},
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"tag_names": tagName,
			},
		},
	}
	data, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("搜索文章标签索引失败: %s", res.String())
	}
	return decodePostIDs(res.Body)
}

func decodePostIDs(body io.Reader) ([]uint, error) {
	var r struct {
		Hits struct {
			Hits []struct {
				Source struct {
					PostID uint `json:"post_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.PostID)
	}
	return ids, nil
}
