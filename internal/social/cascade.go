package social

import (
	"context"
	"errors"
	"fmt"

	"openbook/backend/internal/models"
	"openbook/backend/internal/store"
)

// Cascade orchestrates multi-entity deletes so no orphan references
// remain. There is no multi-document transaction at the store
// boundary, so every cascade is an ordered sequence of idempotent
// steps: re-running any of them after a partial failure converges to
// the same end state without erroring on already-applied sub-steps.
type Cascade struct {
	users    store.Users
	posts    store.Posts
	comments store.Comments
	graph    *Graph
}

// NewCascade returns a Cascade over the given stores.
func NewCascade(s store.Store, graph *Graph) *Cascade {
	return &Cascade{users: s.Users, posts: s.Posts, comments: s.Comments, graph: graph}
}

// DeletePost removes the post and every comment attached to it. Only
// the author may delete. Returns the post as it was before deletion.
func (c *Cascade) DeletePost(ctx context.Context, postID, principalID uint) (*models.Post, error) {
	post, err := c.posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, "post not found")
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	if err := RequireOwner(post, principalID); err != nil {
		return nil, err
	}
	if err := c.deletePostTree(ctx, postID); err != nil {
		return nil, err
	}
	return post, nil
}

// deletePostTree deletes a post's comments and then the post itself.
// Comments go first: a crash mid-way leaves comments partially gone
// and the post present, which a retry finishes, and a comment never
// points at a missing post.
func (c *Cascade) deletePostTree(ctx context.Context, postID uint) error {
	if err := c.comments.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("delete comments of post %d: %w", postID, err)
	}
	if err := c.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post %d: %w", postID, err)
	}
	return nil
}

// DeleteComment removes a comment and detaches it from its post's
// comment list. Only the author may delete. The detach happens first
// so the post's list never references a missing comment.
func (c *Cascade) DeleteComment(ctx context.Context, commentID, principalID uint) (*models.Comment, error) {
	comment, err := c.comments.Get(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, "comment not found")
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if err := RequireOwner(comment, principalID); err != nil {
		return nil, err
	}
	if err := c.detachAndDeleteComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *Cascade) detachAndDeleteComment(ctx context.Context, comment *models.Comment) error {
	if err := c.posts.RemoveFromSet(ctx, comment.PostID, store.PostComments, comment.ID); err != nil {
		return fmt.Errorf("detach comment %d from post %d: %w", comment.ID, comment.PostID, err)
	}
	if err := c.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment %d: %w", comment.ID, err)
	}
	return nil
}

// DeleteUser removes a user together with everything that depends on
// them: owned posts (with their comment threads), comments they left
// under other users' posts, and every reference to them in other
// users' friend and pending sets. Users may only delete themselves.
func (c *Cascade) DeleteUser(ctx context.Context, userID, principalID uint) error {
	if userID != principalID {
		return newError(KindNotAuthorized, "you can only delete your own account")
	}
	if _, err := c.users.Get(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindNotFound, "user not found")
		}
		return fmt.Errorf("load user: %w", err)
	}

	// Owned posts and their full comment threads go first.
	postIDs, err := c.posts.ListIDsByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	for _, postID := range postIDs {
		if err := c.deletePostTree(ctx, postID); err != nil {
			return err
		}
	}

	// Then comments the user left on posts that survive them,
	// detached from their posts' comment lists.
	comments, err := c.comments.ListByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("list comments of user %d: %w", userID, err)
	}
	for i := range comments {
		if err := c.detachAndDeleteComment(ctx, &comments[i]); err != nil {
			return err
		}
	}

	// Graph references next, the user record last, so a retry after
	// any partial failure still finds the root and converges.
	if err := c.graph.PurgeUser(ctx, userID); err != nil {
		return err
	}
	if err := c.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}
