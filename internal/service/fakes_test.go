package service

import (
	"context"
	"sort"

	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
)

// calls 记录每个存储方法被调用的次数
type calls map[string]int

func (c calls) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

type fakePostTagStore struct {
	calls  calls
	nextID uint
	rows   []model.PostTag
	err    error
}

func newFakePostTagStore(links ...model.PostTag) *fakePostTagStore {
	s := &fakePostTagStore{calls: calls{}}
	for _, link := range links {
		s.nextID++
		link.ID = s.nextID
		s.rows = append(s.rows, link)
	}
	return s
}

func (s *fakePostTagStore) filter(keep func(model.PostTag) bool) []model.PostTag {
	out := make([]model.PostTag, 0)
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (s *fakePostTagStore) FindAllByID(_ context.Context, ids []uint) ([]model.PostTag, error) {
	s.calls["FindAllByID"]++
	set := uintSet(ids)
	return s.filter(func(pt model.PostTag) bool { _, ok := set[pt.ID]; return ok }), s.err
}

func (s *fakePostTagStore) CreateInBatch(_ context.Context, entities []model.PostTag) ([]model.PostTag, error) {
	s.calls["CreateInBatch"]++
	if s.err != nil {
		return nil, s.err
	}
	created := make([]model.PostTag, 0, len(entities))
	for _, e := range entities {
		s.nextID++
		e.ID = s.nextID
		s.rows = append(s.rows, e)
		created = append(created, e)
	}
	return created, nil
}

func (s *fakePostTagStore) DeleteAll(_ context.Context, entities []model.PostTag) error {
	s.calls["DeleteAll"]++
	if s.err != nil {
		return s.err
	}
	ids := make([]uint, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	set := uintSet(ids)
	s.rows = s.filter(func(pt model.PostTag) bool { _, ok := set[pt.ID]; return !ok })
	return nil
}

func (s *fakePostTagStore) FindAllTagIDsByPostID(_ context.Context, postID uint) ([]uint, error) {
	s.calls["FindAllTagIDsByPostID"]++
	var ids []uint
	for _, pt := range s.filter(func(pt model.PostTag) bool { return pt.PostID == postID }) {
		ids = append(ids, pt.TagID)
	}
	return sortedDistinct(ids), s.err
}

func (s *fakePostTagStore) FindAllPostIDsByTagID(_ context.Context, tagID uint) ([]uint, error) {
	s.calls["FindAllPostIDsByTagID"]++
	var ids []uint
	for _, pt := range s.filter(func(pt model.PostTag) bool { return pt.TagID == tagID }) {
		ids = append(ids, pt.PostID)
	}
	return sortedDistinct(ids), s.err
}

func (s *fakePostTagStore) FindAllByPostIDIn(_ context.Context, postIDs []uint) ([]model.PostTag, error) {
	s.calls["FindAllByPostIDIn"]++
	set := uintSet(postIDs)
	return s.filter(func(pt model.PostTag) bool { _, ok := set[pt.PostID]; return ok }), s.err
}

func (s *fakePostTagStore) FindAllByPostID(_ context.Context, postID uint) ([]model.PostTag, error) {
	s.calls["FindAllByPostID"]++
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(pt model.PostTag) bool { return pt.PostID == postID }), nil
}

func (s *fakePostTagStore) FindAllByTagID(_ context.Context, tagID uint) ([]model.PostTag, error) {
	s.calls["FindAllByTagID"]++
	return s.filter(func(pt model.PostTag) bool { return pt.TagID == tagID }), s.err
}

func (s *fakePostTagStore) DeleteByPostID(_ context.Context, postID uint) ([]model.PostTag, error) {
	s.calls["DeleteByPostID"]++
	deleted := s.filter(func(pt model.PostTag) bool { return pt.PostID == postID })
	s.rows = s.filter(func(pt model.PostTag) bool { return pt.PostID != postID })
	return deleted, s.err
}

func (s *fakePostTagStore) DeleteByTagID(_ context.Context, tagID uint) ([]model.PostTag, error) {
	s.calls["DeleteByTagID"]++
	deleted := s.filter(func(pt model.PostTag) bool { return pt.TagID == tagID })
	s.rows = s.filter(func(pt model.PostTag) bool { return pt.TagID != tagID })
	return deleted, s.err
}

func (s *fakePostTagStore) CountByTagIDs(_ context.Context, tagIDs []uint) (map[uint]int64, error) {
	s.calls["CountByTagIDs"]++
	set := uintSet(tagIDs)
	counts := make(map[uint]int64)
	for _, pt := range s.rows {
		if _, ok := set[pt.TagID]; ok {
			counts[pt.TagID]++
		}
	}
	return counts, s.err
}

type fakeTagStore struct {
	calls calls
	tags  []model.Tag
}

func newFakeTagStore(tags ...model.Tag) *fakeTagStore {
	return &fakeTagStore{calls: calls{}, tags: tags}
}

func (s *fakeTagStore) FindAllByID(_ context.Context, ids []uint) ([]model.Tag, error) {
	s.calls["FindAllByID"]++
	set := uintSet(ids)
	out := make([]model.Tag, 0)
	for _, tag := range s.tags {
		if _, ok := set[tag.ID]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (s *fakeTagStore) CreateInBatch(_ context.Context, entities []model.Tag) ([]model.Tag, error) {
	s.calls["CreateInBatch"]++
	s.tags = append(s.tags, entities...)
	return entities, nil
}

func (s *fakeTagStore) DeleteAll(_ context.Context, _ []model.Tag) error {
	s.calls["DeleteAll"]++
	return nil
}

func (s *fakeTagStore) FindAll(_ context.Context, sortSpec *repository.Sort) ([]model.Tag, error) {
	s.calls["FindAll"]++
	out := append([]model.Tag(nil), s.tags...)
	if len(sortSpec.Orders) > 0 && sortSpec.Orders[0].Property == "name" {
		desc := sortSpec.Orders[0].Direction == repository.Desc
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].Name > out[j].Name
			}
			return out[i].Name < out[j].Name
		})
	}
	return out, nil
}

type fakePostStore struct {
	calls calls
	posts []model.Post
}

func newFakePostStore(posts ...model.Post) *fakePostStore {
	return &fakePostStore{calls: calls{}, posts: posts}
}

func (s *fakePostStore) FindAllByID(_ context.Context, ids []uint) ([]model.Post, error) {
	s.calls["FindAllByID"]++
	set := uintSet(ids)
	out := make([]model.Post, 0)
	for _, post := range s.posts {
		if _, ok := set[post.ID]; ok {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *fakePostStore) CreateInBatch(_ context.Context, entities []model.Post) ([]model.Post, error) {
	s.calls["CreateInBatch"]++
	return entities, nil
}

func (s *fakePostStore) DeleteAll(_ context.Context, _ []model.Post) error {
	s.calls["DeleteAll"]++
	return nil
}

func uintSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedDistinct(ids []uint) []uint {
	set := uintSet(ids)
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tag(id uint, name string) model.Tag {
	return model.Tag{Base: model.Base{ID: id}, Name: name, Slug: name}
}

func link(postID, tagID uint) model.PostTag {
	return model.PostTag{PostID: postID, TagID: tagID}
}
