package service

import (
	"context"
	"sync"

	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock exposes func fields so a test can define only the behavior it
// cares about. Unset functions fall back to a harmless default.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	updateFn           func(ctx context.Context, user *model.User) error

	createCalls []*model.User
	updateCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	m.updateCalls = append(m.updateCalls, user)
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

type mockPostRepository struct {
	createFn        func(ctx context.Context, userID int64, imageURL, caption string) (*model.Post, error)
	getByIDFn       func(ctx context.Context, postID int64) (*model.Post, error)
	listFn          func(ctx context.Context, authorID *int64) ([]model.Post, error)
	deleteFn        func(ctx context.Context, postID, userID int64) error
	countByAuthorFn func(ctx context.Context, userID int64) (int, error)

	listAuthorIDs []*int64
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, imageURL, caption string) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, imageURL, caption)
	}
	return &model.Post{ID: 1, UserID: userID, ImageURL: imageURL, Caption: caption}, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) List(ctx context.Context, authorID *int64) ([]model.Post, error) {
	m.listAuthorIDs = append(m.listAuthorIDs, authorID)
	if m.listFn != nil {
		return m.listFn(ctx, authorID)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) CountByAuthor(ctx context.Context, userID int64) (int, error) {
	if m.countByAuthorFn != nil {
		return m.countByAuthorFn(ctx, userID)
	}
	return 0, nil
}

type mockLikeRepository struct {
	createFn        func(ctx context.Context, postID, userID int64) (bool, error)
	deleteFn        func(ctx context.Context, postID, userID int64) (bool, error)
	listByPostIDsFn func(ctx context.Context, postIDs []int64) ([]model.Like, error)
	countByUserFn   func(ctx context.Context, userID int64) (int, error)

	listCalls int
}

func (m *mockLikeRepository) Create(ctx context.Context, postID, userID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockLikeRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Like, error) {
	m.listCalls++
	if m.listByPostIDsFn != nil {
		return m.listByPostIDsFn(ctx, postIDs)
	}
	return []model.Like{}, nil
}

func (m *mockLikeRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	if m.countByUserFn != nil {
		return m.countByUserFn(ctx, userID)
	}
	return 0, nil
}

type mockCommentRepository struct {
	createFn        func(ctx context.Context, postID, userID int64, text string) (*model.Comment, error)
	getByIDFn       func(ctx context.Context, commentID int64) (*model.Comment, error)
	deleteFn        func(ctx context.Context, commentID int64) error
	listByPostIDsFn func(ctx context.Context, postIDs []int64) ([]model.Comment, error)

	deleteCalls []int64
	listCalls   int
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, text)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Text: text}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, commentID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockCommentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Comment, error) {
	m.listCalls++
	if m.listByPostIDsFn != nil {
		return m.listByPostIDsFn(ctx, postIDs)
	}
	return []model.Comment{}, nil
}

// =============================================================================
// MOCK PUBLISHER
// =============================================================================

type mockPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}
