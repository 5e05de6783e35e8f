package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"openbook/backend/internal/models"
)

type gormUsers struct {
	db *gorm.DB
}

// NewUsers returns a Users store backed by the given database.
func NewUsers(db *gorm.DB) Users {
	return &gormUsers{db: db}
}

func (s *gormUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormUsers) SearchByName(ctx context.Context, firstName, lastName string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("first_name ILIKE ? AND last_name ILIKE ?", "%"+firstName+"%", "%"+lastName+"%").
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUsers) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormUsers) UpdateProfile(ctx context.Context, id uint, firstName, lastName, email, phoneNumber string) error {
	// Column-scoped update so a concurrent graph mutation on the same
	// row is never overwritten by stale array values.
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"first_name":   firstName,
			"last_name":    lastName,
			"email":        email,
			"phone_number": phoneNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormUsers) UpdatePicture(ctx context.Context, id uint, url string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("profile_pic", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormUsers) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (s *gormUsers) AddToSet(ctx context.Context, id uint, set UserSet, member uint) error {
	col := string(set)
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND NOT (? = ANY("+col+"))", id, int64(member)).
		Update(col, gorm.Expr("array_append("+col+", ?)", int64(member))).Error
}

func (s *gormUsers) RemoveFromSet(ctx context.Context, id uint, set UserSet, member uint) error {
	col := string(set)
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update(col, gorm.Expr("array_remove("+col+", ?)", int64(member))).Error
}

func (s *gormUsers) RemoveMemberFromAllSets(ctx context.Context, member uint) error {
	m := int64(member)
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id <> ?", member).
		Updates(map[string]interface{}{
			"friend_list":     gorm.Expr("array_remove(friend_list, ?)", m),
			"friend_req_sent": gorm.Expr("array_remove(friend_req_sent, ?)", m),
			"friend_req_rec":  gorm.Expr("array_remove(friend_req_rec, ?)", m),
		}).Error
	if err != nil {
		return fmt.Errorf("purge user %d from friend sets: %w", member, err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
