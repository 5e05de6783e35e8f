package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"openbook/backend/internal/models"
	"openbook/backend/internal/social"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// authPrincipal returns the authenticated user id resolved by the
// auth middleware.
func authPrincipal(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// respondError translates a domain error into an HTTP response. Store
// and other unexpected failures become a generic 500.
func respondError(c *gin.Context, err error) {
	kind, ok := social.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case social.KindValidation, social.KindSelfReference, social.KindAlreadyFriends, social.KindDuplicateRequest:
		status = http.StatusBadRequest
	case social.KindNotAuthorized:
		status = http.StatusUnauthorized
	case social.KindNotFound, social.KindRequestNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// region --- shared DTOs ---

// UserResponse is a user's profile together with their graph sets.
type UserResponse struct {
	ID            uint   `json:"id" example:"1"`
	FirstName     string `json:"first_name" example:"John"`
	LastName      string `json:"last_name" example:"Doe"`
	Username      string `json:"username" example:"johndoe"`
	Email         string `json:"email" example:"john@example.com"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	ProfilePic    string `json:"profile_pic,omitempty"`
	FriendList    []uint `json:"friend_list"`
	FriendReqSent []uint `json:"friend_req_sent"`
	FriendReqRec  []uint `json:"friend_req_rec"`
}

func newUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		ProfilePic:    user.ProfilePic,
		FriendList:    models.IDs(user.FriendList),
		FriendReqSent: models.IDs(user.FriendReqSent),
		FriendReqRec:  models.IDs(user.FriendReqRec),
	}
}

// AuthorResponse is the slim author view embedded in posts and comments.
type AuthorResponse struct {
	ID         uint   `json:"id" example:"1"`
	FirstName  string `json:"first_name" example:"John"`
	LastName   string `json:"last_name" example:"Doe"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

func newAuthorResponse(user models.User) AuthorResponse {
	return AuthorResponse{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ProfilePic: user.ProfilePic,
	}
}

// CommentResponse is a comment with its author and like set.
type CommentResponse struct {
	ID        uint           `json:"id" example:"1"`
	Content   string         `json:"content"`
	PostID    uint           `json:"post_id" example:"1"`
	Author    AuthorResponse `json:"author"`
	Likes     []uint         `json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
}

func newCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		PostID:    comment.PostID,
		Author:    newAuthorResponse(comment.Author),
		Likes:     models.IDs(comment.Likes),
		CreatedAt: comment.CreatedAt,
	}
}

// PostResponse is a post with its author, like set and comments.
type PostResponse struct {
	ID        uint              `json:"id" example:"1"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Image     string            `json:"image,omitempty"`
	Author    AuthorResponse    `json:"author"`
	Likes     []uint            `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt time.Time         `json:"created_at"`
}

func newPostResponse(post models.Post, comments []models.Comment) PostResponse {
	commentResponses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentResponses = append(commentResponses, newCommentResponse(comment))
	}
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		Author:    newAuthorResponse(post.Author),
		Likes:     models.IDs(post.Likes),
		Comments:  commentResponses,
		CreatedAt: post.CreatedAt,
	}
}

// endregion
