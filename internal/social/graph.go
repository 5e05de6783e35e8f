package social

import (
	"context"
	"errors"
	"fmt"

	"openbook/backend/internal/models"
	"openbook/backend/internal/store"
)

// Graph owns the friend-request state machine. For an ordered pair
// (requester, target) the states are:
//
//	None      — neither user's sets mention the other
//	Requested — target.friend_req_rec has requester AND
//	            requester.friend_req_sent has target
//	Friends   — both friend_list sets contain the other
//
// Graph is the single mutation entry point for the mirrored sets;
// both halves of a relationship are always updated together, through
// guarded atomic set writes that are safe to re-apply.
type Graph struct {
	users store.Users
}

// NewGraph returns a Graph over the given user store.
func NewGraph(users store.Users) *Graph {
	return &Graph{users: users}
}

// SendRequest records a pending friend request from requester to
// target and returns the updated target. Transition None -> Requested.
func (g *Graph) SendRequest(ctx context.Context, requesterID, targetID uint) (*models.User, error) {
	if requesterID == targetID {
		return nil, newError(KindSelfReference, "you cannot befriend yourself")
	}

	target, err := g.users.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("load target user: %w", err)
	}
	if models.ContainsID(target.FriendList, requesterID) {
		return nil, newError(KindAlreadyFriends, "you are already friends with this user")
	}
	if models.ContainsID(target.FriendReqRec, requesterID) {
		return nil, newError(KindDuplicateRequest, "you have already sent a friend request to this user")
	}

	// Received half first: accept and deny validate against it, so a
	// crash between the two writes leaves a state that a retry of
	// either side converges from without ever inventing a request.
	if err := g.users.AddToSet(ctx, targetID, store.UserFriendReqRec, requesterID); err != nil {
		return nil, fmt.Errorf("record received request: %w", err)
	}
	if err := g.users.AddToSet(ctx, requesterID, store.UserFriendReqSent, targetID); err != nil {
		return nil, fmt.Errorf("record sent request: %w", err)
	}

	return g.users.Get(ctx, targetID)
}

// AcceptRequest turns a pending request from requester into a mutual
// friendship. Only the recipient of the request may accept it.
// Transition Requested -> Friends on both sides.
func (g *Graph) AcceptRequest(ctx context.Context, accepterID, requesterID uint) (*models.User, error) {
	accepter, err := g.users.Get(ctx, accepterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("load accepting user: %w", err)
	}
	if !models.ContainsID(accepter.FriendReqRec, requesterID) {
		return nil, newError(KindRequestNotFound, "friend request not found")
	}

	// Pending halves are cleared before the friendship halves are
	// added, keeping the three sets disjoint at every step. Each
	// write is idempotent, so a retry after a partial failure
	// finishes the transition instead of erroring.
	if err := g.users.RemoveFromSet(ctx, accepterID, store.UserFriendReqRec, requesterID); err != nil {
		return nil, fmt.Errorf("clear received request: %w", err)
	}
	if err := g.users.AddToSet(ctx, accepterID, store.UserFriendList, requesterID); err != nil {
		return nil, fmt.Errorf("befriend on accepting side: %w", err)
	}
	if err := g.users.RemoveFromSet(ctx, requesterID, store.UserFriendReqSent, accepterID); err != nil {
		return nil, fmt.Errorf("clear sent request: %w", err)
	}
	if err := g.users.AddToSet(ctx, requesterID, store.UserFriendList, accepterID); err != nil {
		return nil, fmt.Errorf("befriend on requesting side: %w", err)
	}

	return g.users.Get(ctx, accepterID)
}

// DenyRequest removes a pending request from requester without
// creating a friendship. Only the recipient may deny; the same
// symmetric removal covers a sender wanting the request gone.
// Transition Requested -> None.
func (g *Graph) DenyRequest(ctx context.Context, denierID, requesterID uint) error {
	denier, err := g.users.Get(ctx, denierID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindNotFound, "user not found")
		}
		return fmt.Errorf("load denying user: %w", err)
	}
	if !models.ContainsID(denier.FriendReqRec, requesterID) {
		return newError(KindRequestNotFound, "friend request not found")
	}
	requester, err := g.users.Get(ctx, requesterID)
	if err != nil || !models.ContainsID(requester.FriendReqSent, denierID) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load requesting user: %w", err)
		}
		return newError(KindRequestNotFound, "friend request not found")
	}

	if err := g.users.RemoveFromSet(ctx, denierID, store.UserFriendReqRec, requesterID); err != nil {
		return fmt.Errorf("clear received request: %w", err)
	}
	if err := g.users.RemoveFromSet(ctx, requesterID, store.UserFriendReqSent, denierID); err != nil {
		return fmt.Errorf("clear sent request: %w", err)
	}
	return nil
}

// PurgeUser removes the given user id from every other user's friend
// and pending sets. Used by the cascade delete path; idempotent and
// safe to re-run.
func (g *Graph) PurgeUser(ctx context.Context, deletedUserID uint) error {
	return g.users.RemoveMemberFromAllSets(ctx, deletedUserID)
}
