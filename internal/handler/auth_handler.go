package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"openbook/backend/internal/models"
	"openbook/backend/internal/store"
	"openbook/backend/internal/upload"
	"openbook/backend/pkg/jwt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	FirstName       string `form:"first_name" binding:"required" example:"John"`
	LastName        string `form:"last_name" binding:"required" example:"Doe"`
	Username        string `form:"username" binding:"required" example:"johndoe"`
	Email           string `form:"email" binding:"required,email" example:"john@example.com"`
	Password        string `form:"password" binding:"required,min=8" example:"password123"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password" example:"password123"`
	PhoneNumber     string `form:"phone_number"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"johndoe"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// endregion

// AuthHandler serves registration and login.
type AuthHandler struct {
	users   store.Users
	uploads *upload.Saver
}

// NewAuthHandler returns an AuthHandler over the given user store.
func NewAuthHandler(users store.Users, uploads *upload.Saver) *AuthHandler {
	return &AuthHandler{users: users, uploads: uploads}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user, with an optional profile picture, and returns an authentication token.
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        first_name       formData string true  "First name"
// @Param        last_name        formData string true  "Last name"
// @Param        username         formData string true  "Username"
// @Param        email            formData string true  "E-mail"
// @Param        password         formData string true  "Password"
// @Param        confirm_password formData string true  "Password confirmation"
// @Param        phone_number     formData string false "Phone number"
// @Param        profile_pic      formData file   false "Profile picture"
// @Success      201  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.GetByUsername(c.Request.Context(), input.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check username"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	picURL, err := h.uploads.SaveImage(c, "profile_pic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  input.PhoneNumber,
		ProfilePic:   picURL,
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    newUserResponse(user),
	})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), input.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Log in successful",
		"token":   token,
		"user":    newUserResponse(*user),
	})
}
