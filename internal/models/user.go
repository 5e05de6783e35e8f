package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User represents a member of the network.
//
// The friend graph is stored as mirrored id-sets on both endpoints:
// for any pair (A, B), B is in A's FriendList exactly when A is in
// B's FriendList, and A is in B's FriendReqSent exactly when B is in
// A's FriendReqRec. The three sets are pairwise disjoint and never
// contain the user's own id. All mutations of these columns go through
// the social graph manager, never through direct writes.
type User struct {
	gorm.Model
	FirstName    string `gorm:"size:255;not null"`
	LastName     string `gorm:"size:255;not null"`
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	PhoneNumber  string `gorm:"size:50"`
	ProfilePic   string `gorm:"size:512"`

	FriendList    pq.Int64Array `gorm:"column:friend_list;type:bigint[];not null;default:'{}'"`
	FriendReqSent pq.Int64Array `gorm:"column:friend_req_sent;type:bigint[];not null;default:'{}'"`
	FriendReqRec  pq.Int64Array `gorm:"column:friend_req_rec;type:bigint[];not null;default:'{}'"`
}

// Name returns the user's full display name.
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}
