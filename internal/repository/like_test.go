package repository

import (
	"context"
	"testing"
	"time"

	"alcove/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestLikeRepository_Like(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO likes`).
			WithArgs(models.TargetPost, 1, "user:42", false).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE posts SET like_count = like_count \+ 1`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT like_count FROM posts`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(6))
		mock.ExpectCommit()

		count, err := repo.Like(ctx, models.TargetPost, 1, "user:42", false)
		assert.NoError(t, err)
		assert.Equal(t, 6, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Liked", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO likes`).
			WithArgs(models.TargetPost, 1, "user:42", false).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Like(ctx, models.TargetPost, 1, "user:42", false)
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "CONFLICT", appErr.Code)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Target Missing", func(t *testing.T) {
		// The ledger insert lands but the counter update finds no row,
		// so the rollback discards the ledger row too.
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO likes`).
			WithArgs(models.TargetComment, 404, "anon-key", true).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE comments SET like_count = like_count \+ 1`).
			WithArgs(404).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Like(ctx, models.TargetComment, 404, "anon-key", true)
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "NOT_FOUND", appErr.Code)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Target Kind", func(t *testing.T) {
		_, err := repo.Like(ctx, "sticker", 1, "user:42", false)
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		}
	})
}

func TestLikeRepository_Unlike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id = .+ AND liker_key =`).
			WithArgs(models.TargetPost, 1, "user:42").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE posts SET like_count = like_count - 1`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT like_count FROM posts`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(5))
		mock.ExpectCommit()

		count, err := repo.Unlike(ctx, models.TargetPost, 1, "user:42")
		assert.NoError(t, err)
		assert.Equal(t, 5, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Never Liked", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id = .+ AND liker_key =`).
			WithArgs(models.TargetPost, 1, "user:42").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Unlike(ctx, models.TargetPost, 1, "user:42")
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "NOT_FOUND", appErr.Code)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLikeRepository_IsLiked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes"`).
		WithArgs(models.TargetPost, 1, "user:42").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(ctx, models.TargetPost, 1, "user:42")
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_Stats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	lastLike := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"post_id", "total_likes", "anonymous_likes", "user_likes", "comment_count", "last_like_at"}).
		AddRow(1, 5, 2, 3, 4, lastLike).
		AddRow(2, 0, 0, 0, 0, nil)
	mock.ExpectQuery(`SELECT p.id AS post_id`).
		WithArgs(models.TargetPost).
		WillReturnRows(rows)

	stats, err := repo.Stats(ctx)
	assert.NoError(t, err)
	if assert.Len(t, stats, 2) {
		assert.Equal(t, uint(1), stats[0].PostID)
		assert.Equal(t, 5, stats[0].TotalLikes)
		assert.Equal(t, 2, stats[0].AnonymousLikes)
		if assert.NotNil(t, stats[0].LastLikeAt) {
			assert.True(t, stats[0].LastLikeAt.Equal(lastLike))
		}
		assert.Equal(t, 0, stats[1].TotalLikes)
		assert.Nil(t, stats[1].LastLikeAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
