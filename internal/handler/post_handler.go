package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openbook/backend/internal/models"
	"openbook/backend/internal/social"
	"openbook/backend/internal/store"
	"openbook/backend/internal/upload"
)

// feedPageSize is the fixed page size of the home feed.
const feedPageSize = 20

// region --- DTOs ---

// PostInput defines the writable fields of a post. Author, likes and
// the comment list are never client-writable.
type PostInput struct {
	Title   string `form:"post_title" binding:"required" example:"Hello"`
	Content string `form:"post_content" binding:"required" example:"My first post"`
}

// LikeResponse reports the result of a like toggle.
type LikeResponse struct {
	Liked bool   `json:"liked"`
	Likes []uint `json:"likes"`
}

// endregion

// PostHandler serves the feed and post CRUD.
type PostHandler struct {
	users    store.Users
	posts    store.Posts
	comments store.Comments
	cascade  *social.Cascade
	likes    *social.Likes
	uploads  *upload.Saver
}

// NewPostHandler returns a PostHandler over the given collaborators.
func NewPostHandler(s store.Store, cascade *social.Cascade, likes *social.Likes, uploads *upload.Saver) *PostHandler {
	return &PostHandler{
		users:    s.Users,
		posts:    s.Posts,
		comments: s.Comments,
		cascade:  cascade,
		likes:    likes,
		uploads:  uploads,
	}
}

// GetFeed godoc
// @Summary      Get the home feed
// @Description  Retrieves posts authored by the caller and their friends, newest first, 20 per page.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        skip query int false "Number of posts to skip" default(0)
// @Success      200  {object}  map[string][]PostResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) GetFeed(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	user, err := h.users.Get(c.Request.Context(), principalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	authorIDs := append(models.IDs(user.FriendList), principalID)
	posts, err := h.posts.ListByAuthors(c.Request.Context(), authorIDs, skip, feedPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		comments, err := h.comments.ListByPost(c.Request.Context(), post.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		responses = append(responses, newPostResponse(post, comments))
	}
	c.JSON(http.StatusOK, gin.H{"posts": responses})
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Creates a new post, with an optional image attachment.
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        post_title   formData string true  "Title"
// @Param        post_content formData string true  "Content"
// @Param        post_img     formData file   false "Image"
// @Success      201  {object}  map[string]interface{} "{"post": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	var input PostInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.uploads.SaveImage(c, "post_img")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		Title:    input.Title,
		Content:  input.Content,
		Image:    imageURL,
		AuthorID: principalID,
	}
	if err := h.posts.Create(c.Request.Context(), &post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	created, err := h.posts.Get(c.Request.Context(), post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch created post"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Successfully posted.", "post": newPostResponse(*created, nil)})
}

// GetPostByID godoc
// @Summary      Get a post
// @Description  Retrieves a post together with its comments.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post ID"
// @Success      200  {object}  map[string]PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Router       /posts/{postId} [get]
func (h *PostHandler) GetPostByID(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.posts.Get(c.Request.Context(), uint(postID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": newPostResponse(*post, comments)})
}

// UpdatePost godoc
// @Summary      Edit a post
// @Description  Updates a post's title, content and image. Only the author may edit.
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        postId       path     int    true  "Post ID"
// @Param        post_title   formData string true  "Title"
// @Param        post_content formData string true  "Content"
// @Param        post_img     formData file   false "Image"
// @Success      200  {object}  map[string]interface{} "{"post": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Router       /posts/{postId} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var input PostInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Get(c.Request.Context(), uint(postID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if err := social.RequireOwner(post, principalID); err != nil {
		respondError(c, err)
		return
	}

	imageURL, err := h.uploads.SaveImage(c, "post_img")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if imageURL == "" {
		imageURL = post.Image
	}

	if err := h.posts.UpdateContent(c.Request.Context(), post.ID, input.Title, input.Content, imageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	updated, err := h.posts.Get(c.Request.Context(), post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully updated.", "post": newPostResponse(*updated, nil)})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Deletes a post and every comment under it. Only the author may delete.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post ID"
// @Success      200  {object}  map[string]interface{} "{"deleted_post": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{postId} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.cascade.DeletePost(c.Request.Context(), uint(postID), principalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully.", "deleted_post": newPostResponse(*post, nil)})
}

// TogglePostLike godoc
// @Summary      Toggle a like on a post
// @Description  Likes the post, or removes the caller's like if already present.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post ID"
// @Success      200  {object}  LikeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Router       /posts/{postId}/like [put]
func (h *PostHandler) TogglePostLike(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	likes, liked, err := h.likes.TogglePostLike(c.Request.Context(), uint(postID), principalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Liked: liked, Likes: likes})
}
