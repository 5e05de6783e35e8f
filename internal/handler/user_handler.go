package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openbook/backend/internal/social"
	"openbook/backend/internal/store"
	"openbook/backend/internal/upload"
	"openbook/backend/pkg/jwt"
)

// region --- DTOs ---

// UserSearchInput defines the structure for the user search feature.
type UserSearchInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserUpdateInput defines the structure for profile updates.
type UserUpdateInput struct {
	FirstName   string `json:"first_name" binding:"required" example:"John"`
	LastName    string `json:"last_name" binding:"required" example:"Doe"`
	Email       string `json:"email" binding:"required,email" example:"john@example.com"`
	PhoneNumber string `json:"phone_number"`
}

// FriendRequestInput names the other user of a friend-request action.
type FriendRequestInput struct {
	TargetUserID uint `json:"target_user_id" binding:"required" example:"2"`
}

// endregion

// UserHandler serves user profiles and the friend graph.
type UserHandler struct {
	users   store.Users
	posts   store.Posts
	graph   *social.Graph
	cascade *social.Cascade
	uploads *upload.Saver
}

// NewUserHandler returns a UserHandler over the given collaborators.
func NewUserHandler(s store.Store, graph *social.Graph, cascade *social.Cascade, uploads *upload.Saver) *UserHandler {
	return &UserHandler{users: s.Users, posts: s.Posts, graph: graph, cascade: cascade, uploads: uploads}
}

// ListUsers godoc
// @Summary      List all users
// @Description  Retrieves every user profile.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, newUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// SearchUsers godoc
// @Summary      Search for a user
// @Description  Finds a user by first and last name (case-insensitive).
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UserSearchInput true "Name query"
// @Success      200  {object}  map[string]UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/search [post]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var input UserSearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.SearchByName(c.Request.Context(), input.FirstName, input.LastName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User found", "user": newUserResponse(*user)})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves a user's profile together with the posts they authored.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]interface{} "{"user": {...}, "posts": [...]}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), uint(targetUserID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	posts, err := h.posts.ListByAuthors(c.Request.Context(), []uint{user.ID}, 0, feedPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	postResponses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		postResponses = append(postResponses, newPostResponse(post, nil))
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user), "posts": postResponses})
}

// UpdateUser godoc
// @Summary      Update own profile
// @Description  Updates the authenticated user's profile fields and re-issues a token.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "User ID (must be the caller)"
// @Param        input body UserUpdateInput true "New profile fields"
// @Success      200  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not your profile"
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if principalID != uint(targetUserID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You can only update your own profile"})
		return
	}

	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.users.UpdateProfile(c.Request.Context(), principalID, input.FirstName, input.LastName, input.Email, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), principalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated profile"})
		return
	}
	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Update successful", "token": token, "user": newUserResponse(*user)})
}

// UpdateProfilePicture godoc
// @Summary      Update own profile picture
// @Description  Uploads a new profile picture for the authenticated user.
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id              path     int  true "User ID (must be the caller)"
// @Param        new_profile_pic formData file true "Image file"
// @Success      200  {object}  map[string]interface{} "{"user": {...}}"
// @Failure      400  {object}  ErrorResponse "Not an image"
// @Failure      401  {object}  ErrorResponse "Not your profile"
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/picture [post]
func (h *UserHandler) UpdateProfilePicture(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if principalID != uint(targetUserID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You can only update your own profile"})
		return
	}

	picURL, err := h.uploads.SaveImage(c, "new_profile_pic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if picURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image was uploaded"})
		return
	}

	if err := h.users.UpdatePicture(c.Request.Context(), principalID, picURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile picture"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), principalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture successfully updated", "user": newUserResponse(*user)})
}

// DeleteUser godoc
// @Summary      Delete own account
// @Description  Deletes the user with their posts and comments, and removes them from every friend list.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID (must be the caller)"
// @Success      200  {object}  map[string]string "{"message": "User deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Not your account"
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.cascade.DeleteUser(c.Request.Context(), uint(targetUserID), principalID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// region --- Friend graph ---

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Target user"
// @Success      200  {object}  map[string]interface{} "{"message": "Friend request sent.", "user": {...}}"
// @Failure      400  {object}  ErrorResponse "Self request, already friends, or duplicate request"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/request [post]
func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.graph.SendRequest(c.Request.Context(), principalID, input.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent.", "user": newUserResponse(*target)})
}

// AcceptFriendRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request; both users become friends.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Requesting user"
// @Success      201  {object}  map[string]interface{} "{"message": "Friend request accepted.", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/accept [put]
func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepter, err := h.graph.AcceptRequest(c.Request.Context(), principalID, input.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Friend request accepted.", "user": newUserResponse(*accepter)})
}

// DenyFriendRequest godoc
// @Summary      Deny friend request
// @Description  Denies a pending friend request. Only the recipient of the request may deny it.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Requesting user"
// @Success      200  {object}  map[string]string "{"message": "Friend request successfully deleted."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/deny [delete]
func (h *UserHandler) DenyFriendRequest(c *gin.Context) {
	principalID, _ := authPrincipal(c)
	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.graph.DenyRequest(c.Request.Context(), principalID, input.TargetUserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request successfully deleted."})
}

// endregion
