package server

import (
	"errors"

	"alcove/internal/models"
	"alcove/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Publish a new post as the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string} true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Fetch a single post with its comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{post=models.Post,liked=bool}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Liked is per viewer; lookup failures just leave it false.
	liked, _ := s.engagementService.IsLiked(ctx, s.actorFrom(c), models.TargetPost, id)

	return c.JSON(fiber.Map{
		"post":  post,
		"liked": liked,
	})
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Description Remove a post along with its comments and likes
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		}
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFeed handles GET /api/feed
// @Summary Get feed
// @Description Assembled feed of posts with comments, newest first. Pass ?month=YYYY-MM to filter.
// @Tags feed
// @Produce json
// @Param month query string false "Month filter (YYYY-MM)"
// @Success 200 {array} feed.Item
// @Failure 400 {object} object{error=string}
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	items, err := s.feedService.GetFeed(c.Context(), s.actorFrom(c), c.Query("month"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}
