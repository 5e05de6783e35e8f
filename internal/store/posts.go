package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"openbook/backend/internal/models"
)

type gormPosts struct {
	db *gorm.DB
}

// NewPosts returns a Posts store backed by the given database.
func NewPosts(db *gorm.DB) Posts {
	return &gormPosts{db: db}
}

func (s *gormPosts) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *gormPosts) ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Preload("Author").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *gormPosts) ListIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *gormPosts) Create(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *gormPosts) UpdateContent(ctx context.Context, id uint, title, content, image string) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
			"image":   image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormPosts) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (s *gormPosts) AddToSet(ctx context.Context, id uint, set PostSet, member uint) error {
	col := string(set)
	return s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND NOT (? = ANY("+col+"))", id, int64(member)).
		Update(col, gorm.Expr("array_append("+col+", ?)", int64(member))).Error
}

func (s *gormPosts) RemoveFromSet(ctx context.Context, id uint, set PostSet, member uint) error {
	col := string(set)
	return s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update(col, gorm.Expr("array_remove("+col+", ?)", int64(member))).Error
}

func (s *gormPosts) ToggleLike(ctx context.Context, id uint, member uint) (pq.Int64Array, bool, error) {
	return toggleLike(ctx, s.db, "posts", "post_likes", id, member)
}

// toggleLike flips member's presence in an id-set column with one
// statement, so two concurrent toggles can never lose each other.
func toggleLike(ctx context.Context, db *gorm.DB, table, col string, id, member uint) (pq.Int64Array, bool, error) {
	m := int64(member)
	var likes pq.Int64Array
	row := db.WithContext(ctx).Raw(
		`UPDATE `+table+` SET `+col+` = CASE
			WHEN ? = ANY(`+col+`) THEN array_remove(`+col+`, ?)
			ELSE array_append(`+col+`, ?)
		END
		WHERE id = ? AND deleted_at IS NULL
		RETURNING `+col, m, m, m, id).Row()
	if err := row.Scan(&likes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	return likes, models.ContainsID(likes, member), nil
}
