package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Post represents a post on a user's timeline.
//
// Likes is an id-set of users who liked the post. Comments is the
// ordered sequence of comment ids attached to the post; every id in
// it refers to an existing Comment whose PostID equals this post's id,
// and no id appears twice. AuthorID is immutable after creation.
type Post struct {
	gorm.Model
	Title    string `gorm:"size:255;not null"`
	Content  string `gorm:"not null"`
	Image    string `gorm:"size:512"`
	AuthorID uint   `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID;references:ID"`

	Likes    pq.Int64Array `gorm:"column:post_likes;type:bigint[];not null;default:'{}'"`
	Comments pq.Int64Array `gorm:"column:post_comments;type:bigint[];not null;default:'{}'"`
}

// OwnerID reports the author for ownership checks.
func (p *Post) OwnerID() uint {
	return p.AuthorID
}
