package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Comment represents a comment under a post. AuthorID and PostID are
// immutable after creation; a comment never outlives its post.
type Comment struct {
	gorm.Model
	Content  string `gorm:"not null"`
	AuthorID uint   `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID;references:ID"`
	PostID   uint   `gorm:"column:related_post;not null;index"`

	Likes pq.Int64Array `gorm:"column:comment_likes;type:bigint[];not null;default:'{}'"`
}

// OwnerID reports the author for ownership checks.
func (c *Comment) OwnerID() uint {
	return c.AuthorID
}
