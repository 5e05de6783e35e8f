package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openbook/backend/internal/models"
	"openbook/backend/internal/social"
	"openbook/backend/internal/store"
)

// CommentInput defines the writable fields of a comment. Author and
// the related post are fixed at creation.
type CommentInput struct {
	Content string `json:"comment_content" binding:"required" example:"Nice post!"`
}

// CommentHandler serves comment CRUD under posts.
type CommentHandler struct {
	posts    store.Posts
	comments store.Comments
	cascade  *social.Cascade
	likes    *social.Likes
}

// NewCommentHandler returns a CommentHandler over the given collaborators.
func NewCommentHandler(s store.Store, cascade *social.Cascade, likes *social.Likes) *CommentHandler {
	return &CommentHandler{posts: s.Posts, comments: s.Comments, cascade: cascade, likes: likes}
}

// CreateComment godoc
// @Summary      Comment on a post
// @Description  Creates a comment under the post and appends it to the post's comment list.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int          true "Post ID"
// @Param        input  body CommentInput true "Comment"
// @Success      201  {object}  map[string]interface{} "{"comment": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{postId}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The related post must exist at creation time.
	if _, err := h.posts.Get(c.Request.Context(), uint(postID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	comment := models.Comment{
		Content:  input.Content,
		AuthorID: principalID,
		PostID:   uint(postID),
	}
	if err := h.comments.Create(c.Request.Context(), &comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	// Comment row first, then the guarded append to the post's comment
	// list, so the list never references a comment that does not exist.
	if err := h.posts.AddToSet(c.Request.Context(), uint(postID), store.PostComments, comment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach comment to post"})
		return
	}

	created, err := h.comments.Get(c.Request.Context(), comment.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch created comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Successfully commented", "comment": newCommentResponse(*created)})
}

// GetComment godoc
// @Summary      Get a comment
// @Description  Retrieves a single comment with its author.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId    path int true "Post ID"
// @Param        commentId path int true "Comment ID"
// @Success      200  {object}  map[string]CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Comment not found"
// @Router       /posts/{postId}/comments/{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	comment, err := h.comments.Get(c.Request.Context(), uint(commentID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": newCommentResponse(*comment)})
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Description  Updates a comment's content. Only the author may edit.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId    path int          true "Post ID"
// @Param        commentId path int          true "Comment ID"
// @Param        input     body CommentInput true "New content"
// @Success      200  {object}  map[string]interface{} "{"comment": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse "Comment not found"
// @Router       /posts/{postId}/comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Get(c.Request.Context(), uint(commentID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if err := social.RequireOwner(comment, principalID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.comments.UpdateContent(c.Request.Context(), comment.ID, input.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	updated, err := h.comments.Get(c.Request.Context(), comment.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment successfully updated.", "comment": newCommentResponse(*updated)})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Deletes a comment and detaches it from its post. Only the author may delete.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId    path int true "Post ID"
// @Param        commentId path int true "Comment ID"
// @Success      200  {object}  map[string]interface{} "{"comment": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse "Comment not found"
// @Router       /posts/{postId}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	comment, err := h.cascade.DeleteComment(c.Request.Context(), uint(commentID), principalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully.", "comment": newCommentResponse(*comment)})
}

// ToggleCommentLike godoc
// @Summary      Toggle a like on a comment
// @Description  Likes the comment, or removes the caller's like if already present.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId    path int true "Post ID"
// @Param        commentId path int true "Comment ID"
// @Success      200  {object}  LikeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Comment not found"
// @Router       /posts/{postId}/comments/{commentId}/like [put]
func (h *CommentHandler) ToggleCommentLike(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	likes, liked, err := h.likes.ToggleCommentLike(c.Request.Context(), uint(commentID), principalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Liked: liked, Likes: likes})
}
