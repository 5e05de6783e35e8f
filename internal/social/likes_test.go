package social_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbook/backend/internal/social"
	"openbook/backend/internal/store/memstore"
)

func TestTogglePostLike_AddsThenRemoves(t *testing.T) {
	_, s := memstore.New()
	likes := social.NewLikes(s.Posts, s.Comments)
	ctx := context.Background()
	author := createUser(t, s.Users, "Alice")
	liker := createUser(t, s.Users, "Bob")
	postID := createPost(t, s, author, "hello")

	set, liked, err := likes.TogglePostLike(ctx, postID, liker)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []uint{liker}, set)

	set, liked, err = likes.TogglePostLike(ctx, postID, liker)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, set)
}

func TestTogglePostLike_DifferentPrincipalsAccumulate(t *testing.T) {
	_, s := memstore.New()
	likes := social.NewLikes(s.Posts, s.Comments)
	ctx := context.Background()
	author := createUser(t, s.Users, "Alice")
	b := createUser(t, s.Users, "Bob")
	c := createUser(t, s.Users, "Carol")
	postID := createPost(t, s, author, "hello")

	_, _, err := likes.TogglePostLike(ctx, postID, b)
	require.NoError(t, err)
	set, liked, err := likes.TogglePostLike(ctx, postID, c)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.ElementsMatch(t, []uint{b, c}, set)

	// One principal unliking does not disturb the other.
	set, _, err = likes.TogglePostLike(ctx, postID, b)
	require.NoError(t, err)
	assert.Equal(t, []uint{c}, set)
}

func TestTogglePostLike_MissingPost(t *testing.T) {
	_, s := memstore.New()
	likes := social.NewLikes(s.Posts, s.Comments)
	liker := createUser(t, s.Users, "Bob")

	_, _, err := likes.TogglePostLike(context.Background(), 999, liker)
	requireKind(t, err, social.KindNotFound)
}

func TestToggleCommentLike_AddsThenRemoves(t *testing.T) {
	_, s := memstore.New()
	likes := social.NewLikes(s.Posts, s.Comments)
	ctx := context.Background()
	author := createUser(t, s.Users, "Alice")
	liker := createUser(t, s.Users, "Bob")
	postID := createPost(t, s, author, "hello")
	commentID := createComment(t, s, liker, postID, "hey")

	set, liked, err := likes.ToggleCommentLike(ctx, commentID, author)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []uint{author}, set)

	set, liked, err = likes.ToggleCommentLike(ctx, commentID, author)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, set)
}

func TestToggleCommentLike_MissingComment(t *testing.T) {
	_, s := memstore.New()
	likes := social.NewLikes(s.Posts, s.Comments)
	liker := createUser(t, s.Users, "Bob")

	_, _, err := likes.ToggleCommentLike(context.Background(), 999, liker)
	requireKind(t, err, social.KindNotFound)
}
