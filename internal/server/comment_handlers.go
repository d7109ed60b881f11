package server

import (
	"errors"

	"alcove/internal/models"
	"alcove/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a post. Registered users comment
// under their account; everyone else comments as a guest.
// @Summary Add comment
// @Description Comment on a post, with or without an account
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{content=string,guest_name=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content   string `json:"content"`
		GuestName string `json:"guest_name"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		Actor:     s.actorFrom(c),
		PostID:    postID,
		Content:   req.Content,
		GuestName: req.GuestName,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments returns all comments for a post (public)
// @Summary List comments
// @Description All comments on a post, newest first
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// DeleteComment deletes a comment. Allowed for the comment's author,
// the owner of the post it sits on, and admins.
// @Summary Delete comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	_, err = s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	})
	if err != nil {
		// Ownership failures surface as 403 here, not 401: the caller is
		// authenticated, just not allowed to touch this comment.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		}
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
