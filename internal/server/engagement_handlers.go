package server

import (
	"errors"

	"alcove/internal/identity"
	"alcove/internal/middleware"
	"alcove/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondLikeResult writes the success payload shared by all like
// endpoints.
func respondLikeResult(c *fiber.Ctx, likeCount int) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"like_count": likeCount,
	})
}

// respondLikeError writes the failure payload shared by all like
// endpoints, with the status derived from the error's code.
func respondLikeError(c *fiber.Ctx, err error) error {
	message := "Internal server error"
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// LikePost handles POST /api/posts/:id/like
// @Summary Like post
// @Description Record a like on a post for the authenticated user
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{success=bool,like_count=int}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.LikePost(c.Context(), s.actorFrom(c), postID)
	if err != nil {
		return respondLikeError(c, err)
	}
	return respondLikeResult(c, count)
}

// UnlikePost handles DELETE /api/posts/:id/like
// @Summary Unlike post
// @Description Remove the authenticated user's like from a post
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{success=bool,like_count=int}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.UnlikePost(c.Context(), s.actorFrom(c), postID)
	if err != nil {
		return respondLikeError(c, err)
	}
	return respondLikeResult(c, count)
}

// AnonymousLikePost handles POST /api/posts/:id/anonymous-like
// @Summary Like post anonymously
// @Description Record a like on a post for an anonymous visitor identified by the X-Anon-ID header
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Param X-Anon-ID header string true "Anonymous visitor ID"
// @Success 200 {object} object{success=bool,like_count=int}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /posts/{id}/anonymous-like [post]
func (s *Server) AnonymousLikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// This endpoint is anonymous by definition; a bearer token on the
	// request does not change who the like belongs to.
	actor := identity.Anonymous(c.Get(middleware.AnonIDHeader))

	count, err := s.engagementService.LikePost(c.Context(), actor, postID)
	if err != nil {
		return respondLikeError(c, err)
	}
	return respondLikeResult(c, count)
}

// LikeComment handles POST /api/comments/:id/like
// @Summary Like comment
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{success=bool,like_count=int}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /comments/{id}/like [post]
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.LikeComment(c.Context(), s.actorFrom(c), commentID)
	if err != nil {
		return respondLikeError(c, err)
	}
	return respondLikeResult(c, count)
}

// UnlikeComment handles DELETE /api/comments/:id/like
// @Summary Unlike comment
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{success=bool,like_count=int}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /comments/{id}/like [delete]
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.UnlikeComment(c.Context(), s.actorFrom(c), commentID)
	if err != nil {
		return respondLikeError(c, err)
	}
	return respondLikeResult(c, count)
}

// AuthorLikeComment handles POST /api/comments/:id/author-like
// @Summary Toggle author highlight
// @Description Flip the author-liked badge on a comment (admin only)
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} object{error=string}
// @Router /comments/{id}/author-like [post]
func (s *Server) AuthorLikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.engagementService.AuthorLike(c.Context(), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// GetEngagementStats handles GET /api/admin/engagement
// @Summary Engagement stats
// @Description Per-post like and comment totals for the admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EngagementStats
// @Router /admin/engagement [get]
func (s *Server) GetEngagementStats(c *fiber.Ctx) error {
	stats, err := s.engagementService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
