package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcove/internal/models"
	"alcove/internal/notifications"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listAllFn       func(context.Context) ([]*models.Post, error)
	listByMonthFn   func(context.Context, int, time.Month) ([]*models.Post, error)
	deleteCascadeFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListAll(ctx context.Context) ([]*models.Post, error) {
	return s.listAllFn(ctx)
}
func (s *postRepoStub) ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Post, error) {
	return s.listByMonthFn(ctx, year, month)
}
func (s *postRepoStub) DeleteCascade(ctx context.Context, id uint) error {
	return s.deleteCascadeFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listAllFn:       func(_ context.Context) ([]*models.Post, error) { return nil, nil },
		listByMonthFn:   func(_ context.Context, _ int, _ time.Month) ([]*models.Post, error) { return nil, nil },
		deleteCascadeFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

// assertConflictError asserts that err is an AppError with code CONFLICT.
func assertConflictError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), nil, nil)
	ctx := context.Background()

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Content: "body"})
		assertValidationError(t, err)
	})

	t.Run("title too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  1,
			Title:   strings.Repeat("t", 301),
			Content: "body",
		})
		assertValidationError(t, err)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "hello"})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  1,
			Title:   "hello",
			Content: strings.Repeat("x", 50001),
		})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 42
		return nil
	}
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Title: "hello", Content: "body", UserID: 1}, nil
	}

	svc := NewPostService(postRepo, nil, nil)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   "hello",
		Content: "body",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, "hello", post.Title)
}

func TestPostService_CreatePost_BroadcastsEvent(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	notifier := notifications.NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channels := make(chan string, 1)
	require.NoError(t, notifier.StartPatternSubscriber(ctx, func(channel, _ string) {
		channels <- channel
	}))

	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		return nil
	}
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	svc := NewPostService(postRepo, nil, notifier)
	_, err = svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   "hello",
		Content: "body",
	})
	require.NoError(t, err)

	select {
	case channel := <-channels:
		assert.Equal(t, "notifications:broadcast", channel)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast for the new post")
	}
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	ownedByTen := func() *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		return repo
	}

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		deleted := false
		repo := ownedByTen()
		repo.deleteCascadeFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewPostService(repo, nil, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 10, PostID: 1})
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("non-owner without isAdmin returns unauthorized", func(t *testing.T) {
		t.Parallel()
		deleted := false
		repo := ownedByTen()
		repo.deleteCascadeFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewPostService(repo, nil, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertUnauthorizedError(t, err)
		assert.False(t, deleted, "failed authorization must not delete")
	})

	t.Run("admin can delete another user's post", func(t *testing.T) {
		t.Parallel()
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(ownedByTen(), isAdmin, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		require.NoError(t, err)
	})

	t.Run("isAdmin error propagates", func(t *testing.T) {
		t.Parallel()
		adminErr := errors.New("admin check failed")
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return false, adminErr }
		svc := NewPostService(ownedByTen(), isAdmin, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assert.ErrorIs(t, err, adminErr)
	})

	t.Run("missing post propagates repo error", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo, nil, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 99})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
