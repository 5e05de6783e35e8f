package store

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"openbook/backend/internal/models"
)

type gormComments struct {
	db *gorm.DB
}

// NewComments returns a Comments store backed by the given database.
func NewComments(db *gorm.DB) Comments {
	return &gormComments{db: db}
}

func (s *gormComments) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *gormComments) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("related_post = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *gormComments) ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *gormComments) Create(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *gormComments) UpdateContent(ctx context.Context, id uint, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormComments) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (s *gormComments) DeleteByPost(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Where("related_post = ?", postID).Delete(&models.Comment{}).Error
}

func (s *gormComments) ToggleLike(ctx context.Context, id uint, member uint) (pq.Int64Array, bool, error) {
	return toggleLike(ctx, s.db, "comments", "comment_likes", id, member)
}
