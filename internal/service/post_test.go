package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/queue"
)

type postFixture struct {
	posts     *mockPostRepository
	likes     *mockLikeRepository
	comments  *mockCommentRepository
	publisher *mockPublisher
	svc       *PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:     &mockPostRepository{},
		likes:     &mockLikeRepository{},
		comments:  &mockCommentRepository{},
		publisher: &mockPublisher{},
	}
	f.svc = NewPostService(f.posts, f.likes, NewFeedAggregator(f.likes, f.comments), f.publisher)
	return f
}

func existingPost(id, ownerID int64) func(ctx context.Context, postID int64) (*model.Post, error) {
	return func(ctx context.Context, postID int64) (*model.Post, error) {
		if postID != id {
			return nil, model.ErrPostNotFound
		}
		return &model.Post{ID: id, UserID: ownerID, ImageURL: "https://img/1.jpg", Caption: "hi"}, nil
	}
}

// =============================================================================
// CREATE / LIST
// =============================================================================

func TestPostService_Create(t *testing.T) {
	f := newPostFixture()

	view, err := f.svc.Create(context.Background(), 1, model.CreatePostRequest{ImageURL: " https://img/1.jpg ", Caption: " hello "})

	require.NoError(t, err)
	assert.Equal(t, "https://img/1.jpg", view.ImageURL)
	assert.Equal(t, "hello", view.Caption)
	assert.Zero(t, view.LikesCount)
	assert.False(t, view.IsLiked)
	assert.NotNil(t, view.Comments)
	assert.Equal(t, []string{queue.EventPostCreated}, f.publisher.types())
}

func TestPostService_Create_RequiresBothFields(t *testing.T) {
	for _, req := range []model.CreatePostRequest{
		{ImageURL: "", Caption: "x"},
		{ImageURL: "https://img", Caption: "   "},
		{},
	} {
		f := newPostFixture()
		_, err := f.svc.Create(context.Background(), 1, req)
		assert.ErrorIs(t, err, model.ErrPostFieldsNeeded)
		assert.Empty(t, f.publisher.types())
	}
}

func TestPostService_Create_PublishFailureDoesNotFail(t *testing.T) {
	f := newPostFixture()
	f.publisher.err = errors.New("redis down")

	_, err := f.svc.Create(context.Background(), 1, model.CreatePostRequest{ImageURL: "u", Caption: "c"})

	assert.NoError(t, err)
}

func TestPostService_Create_WithoutPublisher(t *testing.T) {
	f := newPostFixture()
	svc := NewPostService(f.posts, f.likes, NewFeedAggregator(f.likes, f.comments), nil)

	_, err := svc.Create(context.Background(), 1, model.CreatePostRequest{ImageURL: "u", Caption: "c"})

	assert.NoError(t, err)
}

func TestPostService_List_Scopes(t *testing.T) {
	tests := []struct {
		scope      string
		wantAuthor bool
		wantErr    error
	}{
		{"", false, nil},
		{model.ScopeAll, false, nil},
		{model.ScopeMine, true, nil},
		{"friends", false, model.ErrInvalidScope},
	}

	for _, tt := range tests {
		t.Run("scope="+tt.scope, func(t *testing.T) {
			f := newPostFixture()

			views, err := f.svc.List(context.Background(), 9, tt.scope)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.posts.listAuthorIDs)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, views)
			require.Len(t, f.posts.listAuthorIDs, 1)
			if tt.wantAuthor {
				require.NotNil(t, f.posts.listAuthorIDs[0])
				assert.Equal(t, int64(9), *f.posts.listAuthorIDs[0])
			} else {
				assert.Nil(t, f.posts.listAuthorIDs[0])
			}
		})
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestPostService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantErr    error
		wantEvents []string
	}{
		{"owner deletes", nil, nil, []string{queue.EventPostDeleted}},
		{"not owner", model.ErrNotPostOwner, model.ErrNotPostOwner, []string{}},
		{"missing", model.ErrPostNotFound, model.ErrPostNotFound, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			f.posts.deleteFn = func(ctx context.Context, postID, userID int64) error { return tt.repoErr }

			err := f.svc.Delete(context.Background(), 5, 1)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantEvents, f.publisher.types())
		})
	}
}

// =============================================================================
// LIKE / UNLIKE
// =============================================================================

func TestPostService_Like_IsIdempotent(t *testing.T) {
	f := newPostFixture()
	f.posts.getByIDFn = existingPost(5, 2)

	liked := map[int64]bool{}
	f.likes.createFn = func(ctx context.Context, postID, userID int64) (bool, error) {
		if liked[userID] {
			return false, nil
		}
		liked[userID] = true
		return true, nil
	}
	f.likes.listByPostIDsFn = func(ctx context.Context, postIDs []int64) ([]model.Like, error) {
		var out []model.Like
		for userID := range liked {
			out = append(out, model.Like{PostID: 5, UserID: userID})
		}
		return out, nil
	}

	first, err := f.svc.Like(context.Background(), 5, 1)
	require.NoError(t, err)
	second, err := f.svc.Like(context.Background(), 5, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, first.LikesCount)
	assert.True(t, first.IsLiked)
	assert.Equal(t, 1, second.LikesCount)
	assert.True(t, second.IsLiked)
	assert.Equal(t, []string{queue.EventPostLiked}, f.publisher.types(), "duplicate like publishes nothing")
	assert.Equal(t, int64(2), f.publisher.events[0].AuthorID)
	assert.Equal(t, int64(1), f.publisher.events[0].ActorID)
}

func TestPostService_Like_MissingPost(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.Like(context.Background(), 404, 1)

	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostService_Like_OtherInsertErrorsSurface(t *testing.T) {
	f := newPostFixture()
	f.posts.getByIDFn = existingPost(5, 2)
	f.likes.createFn = func(ctx context.Context, postID, userID int64) (bool, error) {
		return false, errors.New("disk full")
	}

	_, err := f.svc.Like(context.Background(), 5, 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostService_Unlike_NotLikedIsFine(t *testing.T) {
	f := newPostFixture()
	f.posts.getByIDFn = existingPost(5, 2)
	f.likes.deleteFn = func(ctx context.Context, postID, userID int64) (bool, error) { return false, nil }

	view, err := f.svc.Unlike(context.Background(), 5, 1)

	require.NoError(t, err)
	assert.False(t, view.IsLiked)
	assert.Empty(t, f.publisher.types())
}

func TestPostService_Unlike_PublishesWhenRemoved(t *testing.T) {
	f := newPostFixture()
	f.posts.getByIDFn = existingPost(5, 2)

	_, err := f.svc.Unlike(context.Background(), 5, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{queue.EventPostUnliked}, f.publisher.types())
}
