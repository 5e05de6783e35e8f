package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"openbook/backend/internal/auth"
	"openbook/backend/internal/config"
	"openbook/backend/internal/handler"
	"openbook/backend/internal/models"
	"openbook/backend/internal/social"
	"openbook/backend/internal/store"
	"openbook/backend/internal/store/memstore"
	"openbook/backend/internal/upload"
	"openbook/backend/pkg/jwt"
)

// newTestAPI wires the full HTTP surface over an in-memory store, with
// the real auth middleware and real tokens.
func newTestAPI(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		BaseURL:   "http://localhost:8080",
		UploadDir: t.TempDir(),
	}

	_, s := memstore.New()
	graph := social.NewGraph(s.Users)
	cascade := social.NewCascade(s, graph)
	likes := social.NewLikes(s.Posts, s.Comments)
	uploads := &upload.Saver{Dir: config.AppConfig.UploadDir, BaseURL: config.AppConfig.BaseURL}

	authHandler := handler.NewAuthHandler(s.Users, uploads)
	userHandler := handler.NewUserHandler(s, graph, cascade, uploads)
	postHandler := handler.NewPostHandler(s, cascade, likes, uploads)
	commentHandler := handler.NewCommentHandler(s, cascade, likes)

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("", userHandler.ListUsers)
	userRoutes.POST("/search", userHandler.SearchUsers)
	userRoutes.POST("/request", userHandler.SendFriendRequest)
	userRoutes.PUT("/accept", userHandler.AcceptFriendRequest)
	userRoutes.DELETE("/deny", userHandler.DenyFriendRequest)
	userRoutes.GET("/:id", userHandler.GetUserByID)
	userRoutes.PUT("/:id", userHandler.UpdateUser)
	userRoutes.DELETE("/:id", userHandler.DeleteUser)

	postRoutes := apiV1.Group("/posts")
	postRoutes.Use(auth.AuthMiddleware())
	postRoutes.GET("", postHandler.GetFeed)
	postRoutes.POST("", postHandler.CreatePost)
	postRoutes.GET("/:postId", postHandler.GetPostByID)
	postRoutes.PUT("/:postId", postHandler.UpdatePost)
	postRoutes.DELETE("/:postId", postHandler.DeletePost)
	postRoutes.PUT("/:postId/like", postHandler.TogglePostLike)
	postRoutes.POST("/:postId/comments", commentHandler.CreateComment)
	postRoutes.GET("/:postId/comments/:commentId", commentHandler.GetComment)
	postRoutes.PUT("/:postId/comments/:commentId", commentHandler.UpdateComment)
	postRoutes.DELETE("/:postId/comments/:commentId", commentHandler.DeleteComment)
	postRoutes.PUT("/:postId/comments/:commentId/like", commentHandler.ToggleCommentLike)

	return router, s
}

// seedUser creates a user directly in the store and mints a token for them.
func seedUser(t *testing.T, s store.Store, username string) (uint, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		FirstName:    username,
		LastName:     "Tester",
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, s.Users.Create(context.Background(), u))
	token, err := jwt.GenerateToken(u.ID)
	require.NoError(t, err)
	return u.ID, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, router *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterThenLogin(t *testing.T) {
	router, _ := newTestAPI(t)

	form := url.Values{
		"first_name":       {"John"},
		"last_name":        {"Doe"},
		"username":         {"johndoe"},
		"email":            {"john@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}
	w := doForm(t, router, http.MethodPost, "/api/v1/auth/register", "", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	// Same username again conflicts.
	w = doForm(t, router, http.MethodPost, "/api/v1/auth/register", "", form)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Mismatched confirmation is rejected before anything is stored.
	bad := url.Values{}
	for k, v := range form {
		bad[k] = v
	}
	bad.Set("username", "janedoe")
	bad.Set("confirm_password", "different1")
	w = doForm(t, router, http.MethodPost, "/api/v1/auth/register", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "johndoe", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "johndoe", "password": "wrongwrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "nobody", "password": "password123"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRejectMissingOrBadToken(t *testing.T) {
	router, _ := newTestAPI(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/posts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFriendRequestStatusCodes(t *testing.T) {
	router, s := newTestAPI(t)
	aliceID, aliceToken := seedUser(t, s, "alice")
	bobID, bobToken := seedUser(t, s, "bob")

	// Send.
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Duplicate and self requests are client errors.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": bobID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": aliceID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown target.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The sender cannot accept their own request.
	w = doJSON(t, router, http.MethodPut, "/api/v1/users/accept", aliceToken, gin.H{"target_user_id": bobID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The recipient accepts.
	w = doJSON(t, router, http.MethodPut, "/api/v1/users/accept", bobToken, gin.H{"target_user_id": aliceID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Sending again now fails: already friends.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": bobID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing pending anymore to deny.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/deny", bobToken, gin.H{"target_user_id": aliceID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDenyFriendRequestOverHTTP(t *testing.T) {
	router, s := newTestAPI(t)
	aliceID, aliceToken := seedUser(t, s, "alice")
	bobID, bobToken := seedUser(t, s, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/deny", bobToken, gin.H{"target_user_id": aliceID})
	assert.Equal(t, http.StatusOK, w.Code)

	bob, err := s.Users.Get(context.Background(), bobID)
	require.NoError(t, err)
	assert.Empty(t, bob.FriendReqRec)
	assert.Empty(t, bob.FriendList)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	router, s := newTestAPI(t)
	_, aliceToken := seedUser(t, s, "alice")
	_, bobToken := seedUser(t, s, "bob")

	// Create.
	form := url.Values{"post_title": {"Hello"}, "post_content": {"First post"}}
	w := doForm(t, router, http.MethodPost, "/api/v1/posts", aliceToken, form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	post := body["post"].(map[string]any)
	postID := uint(post["id"].(float64))
	postPath := "/api/v1/posts/" + itoa(postID)

	// Missing fields are rejected.
	w = doForm(t, router, http.MethodPost, "/api/v1/posts", aliceToken, url.Values{"post_title": {"no content"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Read.
	w = doJSON(t, router, http.MethodGet, postPath, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/posts/999", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the author edits.
	edit := url.Values{"post_title": {"Hello 2"}, "post_content": {"Edited"}}
	w = doForm(t, router, http.MethodPut, postPath, bobToken, edit)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doForm(t, router, http.MethodPut, postPath, aliceToken, edit)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the author deletes.
	w = doJSON(t, router, http.MethodDelete, postPath, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, router, http.MethodDelete, postPath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, postPath, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggleOverHTTP(t *testing.T) {
	router, s := newTestAPI(t)
	aliceID, aliceToken := seedUser(t, s, "alice")
	bobID, bobToken := seedUser(t, s, "bob")

	form := url.Values{"post_title": {"Hello"}, "post_content": {"Like me"}}
	w := doForm(t, router, http.MethodPost, "/api/v1/posts", aliceToken, form)
	require.Equal(t, http.StatusCreated, w.Code)
	post := decodeBody(t, w)["post"].(map[string]any)
	likePath := "/api/v1/posts/" + itoa(uint(post["id"].(float64))) + "/like"

	w = doJSON(t, router, http.MethodPut, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var likeBody handler.LikeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likeBody))
	assert.True(t, likeBody.Liked)
	assert.Equal(t, []uint{bobID}, likeBody.Likes)

	// The author's like joins, then the first like is withdrawn.
	w = doJSON(t, router, http.MethodPut, likePath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPut, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likeBody))
	assert.False(t, likeBody.Liked)
	assert.Equal(t, []uint{aliceID}, likeBody.Likes)

	w = doJSON(t, router, http.MethodPut, "/api/v1/posts/999/like", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentLifecycleOverHTTP(t *testing.T) {
	router, s := newTestAPI(t)
	_, aliceToken := seedUser(t, s, "alice")
	_, bobToken := seedUser(t, s, "bob")

	form := url.Values{"post_title": {"Hello"}, "post_content": {"Comment on me"}}
	w := doForm(t, router, http.MethodPost, "/api/v1/posts", aliceToken, form)
	require.Equal(t, http.StatusCreated, w.Code)
	post := decodeBody(t, w)["post"].(map[string]any)
	postID := uint(post["id"].(float64))
	commentsPath := "/api/v1/posts/" + itoa(postID) + "/comments"

	// Commenting on a missing post fails.
	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/999/comments", bobToken, gin.H{"comment_content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create.
	w = doJSON(t, router, http.MethodPost, commentsPath, bobToken, gin.H{"comment_content": "Nice post!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decodeBody(t, w)["comment"].(map[string]any)
	commentPath := commentsPath + "/" + itoa(uint(comment["id"].(float64)))

	// The post now lists the comment.
	p, err := s.Posts.Get(context.Background(), postID)
	require.NoError(t, err)
	assert.Len(t, p.Comments, 1)

	// Only the comment's author edits, post author or not.
	w = doJSON(t, router, http.MethodPut, commentPath, aliceToken, gin.H{"comment_content": "edited"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, router, http.MethodPut, commentPath, bobToken, gin.H{"comment_content": "Very nice post!"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Comment likes toggle.
	w = doJSON(t, router, http.MethodPut, commentPath+"/like", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Delete detaches from the post.
	w = doJSON(t, router, http.MethodDelete, commentPath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p, err = s.Posts.Get(context.Background(), postID)
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
}

func TestFeedShowsOwnAndFriendsPostsOnly(t *testing.T) {
	router, s := newTestAPI(t)
	aliceID, aliceToken := seedUser(t, s, "alice")
	bobID, bobToken := seedUser(t, s, "bob")
	_, carolToken := seedUser(t, s, "carol")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/request", aliceToken, gin.H{"target_user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPut, "/api/v1/users/accept", bobToken, gin.H{"target_user_id": aliceID})
	require.Equal(t, http.StatusCreated, w.Code)

	for token, title := range map[string]string{
		aliceToken: "from alice",
		bobToken:   "from bob",
		carolToken: "from carol",
	} {
		form := url.Values{"post_title": {title}, "post_content": {"body"}}
		w = doForm(t, router, http.MethodPost, "/api/v1/posts", token, form)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/posts", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]any)
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.(map[string]any)["title"].(string))
	}
	assert.ElementsMatch(t, []string{"from alice", "from bob"}, titles)
}

func TestDeleteUserOverHTTP(t *testing.T) {
	router, s := newTestAPI(t)
	aliceID, aliceToken := seedUser(t, s, "alice")
	_, bobToken := seedUser(t, s, "bob")

	alicePath := "/api/v1/users/" + itoa(aliceID)

	// Only the account owner may delete it.
	w := doJSON(t, router, http.MethodDelete, alicePath, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodDelete, alicePath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := s.Users.Get(context.Background(), aliceID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
