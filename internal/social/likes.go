package social

import (
	"context"
	"errors"
	"fmt"

	"openbook/backend/internal/models"
	"openbook/backend/internal/store"
)

// Likes toggles a principal's membership in the like set of a post or
// comment. The toggle is a single atomic statement at the store
// boundary, so concurrent toggles from different principals never
// lose each other; two toggles by the same principal restore the
// original set. Likes are open to any authenticated participant, no
// ownership check applies.
type Likes struct {
	posts    store.Posts
	comments store.Comments
}

// NewLikes returns a Likes engine over the given stores.
func NewLikes(posts store.Posts, comments store.Comments) *Likes {
	return &Likes{posts: posts, comments: comments}
}

// TogglePostLike flips the principal's like on a post and returns the
// updated like set and the resulting state (true = now liked).
func (l *Likes) TogglePostLike(ctx context.Context, postID, principalID uint) ([]uint, bool, error) {
	set, liked, err := l.posts.ToggleLike(ctx, postID, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, newError(KindNotFound, "post not found")
		}
		return nil, false, fmt.Errorf("toggle post like: %w", err)
	}
	return models.IDs(set), liked, nil
}

// ToggleCommentLike flips the principal's like on a comment and
// returns the updated like set and the resulting state.
func (l *Likes) ToggleCommentLike(ctx context.Context, commentID, principalID uint) ([]uint, bool, error) {
	set, liked, err := l.comments.ToggleLike(ctx, commentID, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, newError(KindNotFound, "comment not found")
		}
		return nil, false, fmt.Errorf("toggle comment like: %w", err)
	}
	return models.IDs(set), liked, nil
}
