package repositories

import (
	"context"
	"time"

	"devconnector/db"
	"devconnector/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.GetDB().WithContext(ctx).Create(user).Error
}

func (r *userPgRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken finds the user holding an unexpired reset token hash.
func (r *userPgRepository) GetByResetToken(ctx context.Context, hash string, now time.Time) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", hash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) Update(ctx context.Context, user *entities.User) error {
	return r.db.GetDB().WithContext(ctx).Save(user).Error
}

// ClearExpiredResetTokens drops reset tokens whose expiry has passed and
// returns how many users were touched.
func (r *userPgRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("reset_password_token IS NOT NULL AND reset_password_expire <= ?", now).
		Updates(map[string]any{"reset_password_token": nil, "reset_password_expire": nil})
	return res.RowsAffected, res.Error
}
