// Package store is the persistence boundary of the application.
//
// Every membership mutation on an id-set column (friend arrays, like
// sets, comment lists) is exposed as an atomic set-add/set-remove
// primitive executed as a single statement, never as a fetch-document,
// mutate-in-memory, save-document round trip. Concurrent requests that
// touch the same array therefore cannot lose each other's updates.
package store

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"openbook/backend/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserSet names an id-set column on the users table.
type UserSet string

const (
	UserFriendList    UserSet = "friend_list"
	UserFriendReqSent UserSet = "friend_req_sent"
	UserFriendReqRec  UserSet = "friend_req_rec"
)

// PostSet names an id-set column on the posts table.
type PostSet string

const (
	PostLikes    PostSet = "post_likes"
	PostComments PostSet = "post_comments"
)

// Users persists User records.
type Users interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SearchByName(ctx context.Context, firstName, lastName string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, firstName, lastName, email, phoneNumber string) error
	UpdatePicture(ctx context.Context, id uint, url string) error
	Delete(ctx context.Context, id uint) error

	// AddToSet appends member to the named set unless already present.
	AddToSet(ctx context.Context, id uint, set UserSet, member uint) error
	// RemoveFromSet removes member from the named set if present.
	RemoveFromSet(ctx context.Context, id uint, set UserSet, member uint) error
	// RemoveMemberFromAllSets removes member from every user's friend
	// and request sets in one statement. Idempotent.
	RemoveMemberFromAllSets(ctx context.Context, member uint) error
}

// Posts persists Post records.
type Posts interface {
	Get(ctx context.Context, id uint) (*models.Post, error)
	// ListByAuthors returns posts authored by any of the given users,
	// newest first, with offset/limit paging.
	ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int) ([]models.Post, error)
	ListIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, id uint, title, content, image string) error
	Delete(ctx context.Context, id uint) error

	AddToSet(ctx context.Context, id uint, set PostSet, member uint) error
	RemoveFromSet(ctx context.Context, id uint, set PostSet, member uint) error
	// ToggleLike flips member's presence in post_likes in a single
	// statement and returns the resulting set and membership state.
	ToggleLike(ctx context.Context, id uint, member uint) (pq.Int64Array, bool, error)
}

// Comments persists Comment records.
type Comments interface {
	Get(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	// DeleteByPost removes every comment attached to the post.
	// Safe to re-run; deleting zero rows is not an error.
	DeleteByPost(ctx context.Context, postID uint) error

	ToggleLike(ctx context.Context, id uint, member uint) (pq.Int64Array, bool, error)
}

// Store bundles the three entity stores.
type Store struct {
	Users    Users
	Posts    Posts
	Comments Comments
}
