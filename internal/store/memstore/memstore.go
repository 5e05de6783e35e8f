// Package memstore is an in-memory implementation of the store
// interfaces. It mirrors the set semantics of the postgres store
// (guarded append, remove-if-present, single-step toggle) and is used
// by the core and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"openbook/backend/internal/models"
	"openbook/backend/internal/store"
)

// Mem holds all three entity stores over shared in-memory state.
type Mem struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
}

// New returns an empty in-memory store bundle.
func New() (*Mem, store.Store) {
	m := &Mem{
		nextID:   1,
		users:    make(map[uint]*models.User),
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
	}
	return m, store.Store{
		Users:    (*memUsers)(m),
		Posts:    (*memPosts)(m),
		Comments: (*memComments)(m),
	}
}

func (m *Mem) allocate() uint {
	id := m.nextID
	m.nextID++
	return id
}

func appendIfAbsent(set pq.Int64Array, member uint) pq.Int64Array {
	if models.ContainsID(set, member) {
		return set
	}
	return append(set, int64(member))
}

func removeMember(set pq.Int64Array, member uint) pq.Int64Array {
	out := set[:0]
	for _, v := range set {
		if v != int64(member) {
			out = append(out, v)
		}
	}
	return out
}

func toggleMember(set pq.Int64Array, member uint) (pq.Int64Array, bool) {
	if models.ContainsID(set, member) {
		return removeMember(set, member), false
	}
	return append(set, int64(member)), true
}

func copySet(set pq.Int64Array) pq.Int64Array {
	out := make(pq.Int64Array, len(set))
	copy(out, set)
	return out
}

// region --- Users ---

type memUsers Mem

func (s *memUsers) Get(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	cp.FriendList = copySet(u.FriendList)
	cp.FriendReqSent = copySet(u.FriendReqSent)
	cp.FriendReqRec = copySet(u.FriendReqRec)
	return &cp, nil
}

func (s *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUsers) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUsers) SearchByName(_ context.Context, firstName, lastName string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.FirstName), strings.ToLower(firstName)) &&
			strings.Contains(strings.ToLower(u.LastName), strings.ToLower(lastName)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = (*Mem)(s).allocate()
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUsers) UpdateProfile(_ context.Context, id uint, firstName, lastName, email, phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	u.PhoneNumber = phoneNumber
	return nil
}

func (s *memUsers) UpdatePicture(_ context.Context, id uint, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ProfilePic = url
	return nil
}

func (s *memUsers) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *memUsers) AddToSet(_ context.Context, id uint, set store.UserSet, member uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	switch set {
	case store.UserFriendList:
		u.FriendList = appendIfAbsent(u.FriendList, member)
	case store.UserFriendReqSent:
		u.FriendReqSent = appendIfAbsent(u.FriendReqSent, member)
	case store.UserFriendReqRec:
		u.FriendReqRec = appendIfAbsent(u.FriendReqRec, member)
	}
	return nil
}

func (s *memUsers) RemoveFromSet(_ context.Context, id uint, set store.UserSet, member uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	switch set {
	case store.UserFriendList:
		u.FriendList = removeMember(u.FriendList, member)
	case store.UserFriendReqSent:
		u.FriendReqSent = removeMember(u.FriendReqSent, member)
	case store.UserFriendReqRec:
		u.FriendReqRec = removeMember(u.FriendReqRec, member)
	}
	return nil
}

func (s *memUsers) RemoveMemberFromAllSets(_ context.Context, member uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if id == member {
			continue
		}
		u.FriendList = removeMember(u.FriendList, member)
		u.FriendReqSent = removeMember(u.FriendReqSent, member)
		u.FriendReqRec = removeMember(u.FriendReqRec, member)
	}
	return nil
}

// endregion

// region --- Posts ---

type memPosts Mem

func (s *memPosts) Get(_ context.Context, id uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.Likes = copySet(p.Likes)
	cp.Comments = copySet(p.Comments)
	return &cp, nil
}

func (s *memPosts) ListByAuthors(_ context.Context, authorIDs []uint, skip, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	var out []models.Post
	for _, p := range s.posts {
		if authors[p.AuthorID] {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memPosts) ListIDsByAuthor(_ context.Context, authorID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			ids = append(ids, p.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memPosts) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = (*Mem)(s).allocate()
	post.CreatedAt = time.Now()
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *memPosts) UpdateContent(_ context.Context, id uint, title, content, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Title = title
	p.Content = content
	p.Image = image
	return nil
}

func (s *memPosts) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

func (s *memPosts) AddToSet(_ context.Context, id uint, set store.PostSet, member uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil
	}
	switch set {
	case store.PostLikes:
		p.Likes = appendIfAbsent(p.Likes, member)
	case store.PostComments:
		p.Comments = appendIfAbsent(p.Comments, member)
	}
	return nil
}

func (s *memPosts) RemoveFromSet(_ context.Context, id uint, set store.PostSet, member uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil
	}
	switch set {
	case store.PostLikes:
		p.Likes = removeMember(p.Likes, member)
	case store.PostComments:
		p.Comments = removeMember(p.Comments, member)
	}
	return nil
}

func (s *memPosts) ToggleLike(_ context.Context, id uint, member uint) (pq.Int64Array, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, false, store.ErrNotFound
	}
	var liked bool
	p.Likes, liked = toggleMember(p.Likes, member)
	return copySet(p.Likes), liked, nil
}

// endregion

// region --- Comments ---

type memComments Mem

func (s *memComments) Get(_ context.Context, id uint) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	cp.Likes = copySet(c.Likes)
	return &cp, nil
}

func (s *memComments) ListByPost(_ context.Context, postID uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memComments) ListByAuthor(_ context.Context, authorID uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.AuthorID == authorID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memComments) Create(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = (*Mem)(s).allocate()
	comment.CreatedAt = time.Now()
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *memComments) UpdateContent(_ context.Context, id uint, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Content = content
	return nil
}

func (s *memComments) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

func (s *memComments) DeleteByPost(_ context.Context, postID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *memComments) ToggleLike(_ context.Context, id uint, member uint) (pq.Int64Array, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, false, store.ErrNotFound
	}
	var liked bool
	c.Likes, liked = toggleMember(c.Likes, member)
	return copySet(c.Likes), liked, nil
}

// endregion
