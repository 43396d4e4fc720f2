package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc      *PostTagService
	postTags *fakePostTagStore
	tags     *fakeTagStore
	posts    *fakePostStore
}

func newFixture(links ...model.PostTag) *serviceFixture {
	f := &serviceFixture{
		postTags: newFakePostTagStore(links...),
		tags:     newFakeTagStore(tag(5, "go"), tag(6, "gorm"), tag(7, "gin"), tag(8, "zap")),
		posts: newFakePostStore(
			model.Post{Base: model.Base{ID: 1}, Title: "first"},
			model.Post{Base: model.Base{ID: 2}, Title: "second"},
		),
	}
	f.svc = NewPostTagService(f.postTags, f.posts, f.tags)
	return f
}

func (f *serviceFixture) storageCalls() int {
	return f.postTags.calls.total() + f.tags.calls.total() + f.posts.calls.total()
}

func tagIDsOf(postTags []model.PostTag) []uint {
	ids := make([]uint, 0, len(postTags))
	for _, pt := range postTags {
		ids = append(ids, pt.TagID)
	}
	return ids
}

func TestPostTagService_InvalidArgumentBeforeStorage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 5))

	ops := map[string]func() error{
		"ListTagsByPostID": func() error { _, err := f.svc.ListTagsByPostID(ctx, 0); return err },
		"ListTagsWithPostCount": func() error {
			_, err := f.svc.ListTagsWithPostCount(ctx, nil)
			return err
		},
		"ListPostsByTagID":        func() error { _, err := f.svc.ListPostsByTagID(ctx, 0); return err },
		"MergeOrCreateByIfAbsent": func() error { _, err := f.svc.MergeOrCreateByIfAbsent(ctx, 0, []uint{5}); return err },
		"MergeOrCreateByIfAbsent zero tag": func() error {
			_, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{5, 0})
			return err
		},
		"ListByPostID":       func() error { _, err := f.svc.ListByPostID(ctx, 0); return err },
		"ListByTagID":        func() error { _, err := f.svc.ListByTagID(ctx, 0); return err },
		"ListTagIDsByPostID": func() error { _, err := f.svc.ListTagIDsByPostID(ctx, 0); return err },
		"RemoveByPostID":     func() error { _, err := f.svc.RemoveByPostID(ctx, 0); return err },
		"RemoveByTagID":      func() error { _, err := f.svc.RemoveByTagID(ctx, 0); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
	assert.Zero(t, f.storageCalls())
}

func TestPostTagService_ListTagsByPostID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 6), link(1, 5), link(2, 7))

	tags, err := f.svc.ListTagsByPostID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, "gorm", tags[1].Name)

	none, err := f.svc.ListTagsByPostID(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostTagService_ListPostsByTagID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 5), link(2, 5), link(2, 6))

	posts, err := f.svc.ListPostsByTagID(ctx, 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, "second", posts[1].Title)
}

func TestPostTagService_ListTagsWithPostCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 5), link(2, 5), link(1, 6))

	resp, err := f.svc.ListTagsWithPostCount(ctx, repository.By(repository.Asc, "name"))
	require.NoError(t, err)
	require.Len(t, resp, 4)

	got := make(map[string]int64, len(resp))
	names := make([]string, 0, len(resp))
	for _, item := range resp {
		got[item.Name] = item.PostCount
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"gin", "go", "gorm", "zap"}, names)
	assert.Equal(t, map[string]int64{"go": 2, "gorm": 1, "gin": 0, "zap": 0}, got)
	assert.Equal(t, 1, f.postTags.calls["CountByTagIDs"])
}

func TestPostTagService_ListTagListMapByPostIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input does not touch storage", func(t *testing.T) {
		f := newFixture(link(1, 5))
		m, err := f.svc.ListTagListMapByPostIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, m)
		assert.NotNil(t, m)
		assert.Zero(t, f.storageCalls())
	})

	t.Run("one link query and one tag query", func(t *testing.T) {
		f := newFixture(link(1, 5), link(1, 6), link(2, 7), link(2, 5), link(2, 8), link(3, 6))
		m, err := f.svc.ListTagListMapByPostIDs(ctx, []uint{1, 2})
		require.NoError(t, err)

		assert.Equal(t, 1, f.postTags.calls.total())
		assert.Equal(t, 1, f.postTags.calls["FindAllByPostIDIn"])
		assert.Equal(t, 1, f.tags.calls.total())
		assert.Equal(t, 1, f.tags.calls["FindAllByID"])

		require.Len(t, m, 2)
		assert.Equal(t, []model.Tag{tag(5, "go"), tag(6, "gorm")}, m[1])
		assert.Equal(t, []model.Tag{tag(7, "gin"), tag(5, "go"), tag(8, "zap")}, m[2])
	})

	t.Run("missing tags are skipped", func(t *testing.T) {
		f := newFixture(link(1, 5), link(1, 99))
		m, err := f.svc.ListTagListMapByPostIDs(ctx, []uint{1})
		require.NoError(t, err)
		assert.Equal(t, []model.Tag{tag(5, "go")}, m[1])
	})
}

func TestPostTagService_MergeOrCreateByIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces diff only", func(t *testing.T) {
		f := newFixture(link(1, 5), link(1, 6), link(2, 5))

		result, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{7, 6})
		require.NoError(t, err)
		assert.Equal(t, []uint{6, 7}, tagIDsOf(result))

		assert.Equal(t, 1, f.postTags.calls["DeleteAll"])
		assert.Equal(t, 1, f.postTags.calls["CreateInBatch"])

		ids, err := f.svc.ListTagIDsByPostID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{6, 7}, ids)

		// 其他文章不受影响
		other, err := f.svc.ListTagIDsByPostID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []uint{5}, other)
	})

	t.Run("kept links keep their ids", func(t *testing.T) {
		f := newFixture(link(1, 5), link(1, 6))
		before, err := f.svc.ListByPostID(ctx, 1)
		require.NoError(t, err)

		result, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{6, 7})
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, before[1].ID, result[0].ID)
		assert.NotZero(t, result[1].ID)
	})

	t.Run("empty desired set is a no-op", func(t *testing.T) {
		f := newFixture(link(1, 5), link(1, 6))

		result, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{})
		require.NoError(t, err)
		assert.Empty(t, result)
		assert.Zero(t, f.storageCalls())

		ids, err := f.svc.ListTagIDsByPostID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{5, 6}, ids)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(link(1, 5))

		first, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{6, 7, 7})
		require.NoError(t, err)

		f.postTags.calls = calls{}
		second, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{7, 6})
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Zero(t, f.postTags.calls["DeleteAll"])
		assert.Zero(t, f.postTags.calls["CreateInBatch"])
	})

	t.Run("untagged post", func(t *testing.T) {
		f := newFixture()

		result, err := f.svc.MergeOrCreateByIfAbsent(ctx, 3, []uint{8, 5})
		require.NoError(t, err)
		assert.Equal(t, []uint{5, 8}, tagIDsOf(result))
		assert.Zero(t, f.postTags.calls["DeleteAll"])
	})

	t.Run("storage error propagates", func(t *testing.T) {
		f := newFixture(link(1, 5))
		boom := errors.New("connection refused")
		f.postTags.err = boom

		_, err := f.svc.MergeOrCreateByIfAbsent(ctx, 1, []uint{6})
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostTagService_ListLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 5), link(1, 6), link(2, 5))

	byPost, err := f.svc.ListByPostID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 6}, tagIDsOf(byPost))

	byTag, err := f.svc.ListByTagID(ctx, 5)
	require.NoError(t, err)
	require.Len(t, byTag, 2)
	assert.Equal(t, uint(1), byTag[0].PostID)
	assert.Equal(t, uint(2), byTag[1].PostID)
}

func TestPostTagService_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(link(1, 5), link(1, 6), link(2, 5))

	removed, err := f.svc.RemoveByPostID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 6}, tagIDsOf(removed))

	tags, err := f.svc.ListTagsByPostID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tags)

	removed, err = f.svc.RemoveByTagID(ctx, 5)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, uint(2), removed[0].PostID)
}
