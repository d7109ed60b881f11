package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"alcove/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Title: "First post", Content: "hello", UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	postID := uint(7)

	postRows := sqlmock.NewRows([]string{"id", "title", "user_id", "like_count"}).
		AddRow(postID, "A post", 1, 3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1 ORDER BY "posts"."id" LIMIT $2`)).
		WithArgs(int64(postID), 1).
		WillReturnRows(postRows)

	// Guest comments only, so no author preload fires for them.
	commentRows := sqlmock.NewRows([]string{"id", "content", "post_id", "user_id", "author_name"}).
		AddRow(21, "newest", postID, nil, "Anonymous").
		AddRow(20, "older", postID, nil, "Anonymous")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."post_id" = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs(postID).
		WillReturnRows(commentRows)

	userRows := sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "author")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1).
		WillReturnRows(userRows)

	post, err := repo.GetByID(ctx, postID)
	assert.NoError(t, err)
	if assert.NotNil(t, post) {
		assert.Equal(t, "A post", post.Title)
		assert.Equal(t, 3, post.LikeCount)
		assert.Len(t, post.Comments, 2)
		assert.Equal(t, "author", post.User.Username)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByMonth(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "title", "user_id"}).
		AddRow(5, "July post", 1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE created_at >= $1 AND created_at < $2`)).
		WithArgs(start, end).
		WillReturnRows(rows)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."post_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "author"))

	posts, err := repo.ListByMonth(ctx, 2025, time.July)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeleteCascade(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		postID := uint(9)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id IN`).
			WithArgs(models.TargetComment, postID).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM comments WHERE post_id =`).
			WithArgs(postID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id =`).
			WithArgs(models.TargetPost, postID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM posts WHERE id =`).
			WithArgs(postID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteCascade(ctx, postID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Post Missing", func(t *testing.T) {
		postID := uint(404)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id IN`).
			WithArgs(models.TargetComment, postID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM comments WHERE post_id =`).
			WithArgs(postID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM likes WHERE target_kind = .+ AND target_id =`).
			WithArgs(models.TargetPost, postID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM posts WHERE id =`).
			WithArgs(postID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteCascade(ctx, postID)
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "NOT_FOUND", appErr.Code)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
