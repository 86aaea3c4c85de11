package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/skz_roster/internal/models"
)

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateAccount inserts u. When no account exists yet the new one becomes
// admin; the count and the insert share a transaction.
func (r *GormRepo) CreateAccount(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			u.Role = models.RoleAdmin
		} else {
			u.Role = models.RoleUser
		}
		return translate(tx.Create(u).Error)
	})
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	return findByID[models.User](ctx, r.DB, id)
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	return listAll[models.User](ctx, r.DB)
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return updateByID(ctx, r.DB, u)
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return deleteByID[models.User](ctx, r.DB, id)
}
