package repositories

import (
	"context"
	"errors"

	"devconnector/apperr"
	"devconnector/db"
	"devconnector/entities"
	"devconnector/query"

	"gorm.io/gorm"
)

type postPgRepository struct {
	db db.Database
}

func NewPostPgRepository(database db.Database) PostRepository {
	return &postPgRepository{db: database}
}

func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC")
}

func withPostChildren(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Likes", newestFirst).Preload("Comments", newestFirst)
}

func (r *postPgRepository) Create(ctx context.Context, post *entities.Post) error {
	return r.db.GetDB().WithContext(ctx).Create(post).Error
}

func (r *postPgRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	var post entities.Post
	err := withPostChildren(r.db.GetDB().WithContext(ctx)).Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postPgRepository) List(ctx context.Context, q query.ListQuery) (query.Result[entities.Post], error) {
	return query.Find[entities.Post](ctx, r.db.GetDB(), q, withPostChildren)
}

func (r *postPgRepository) UpdateText(ctx context.Context, post *entities.Post) error {
	return r.db.GetDB().WithContext(ctx).Model(post).Update("text", post.Text).Error
}

func (r *postPgRepository) Delete(ctx context.Context, id string) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entities.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Post{}).Error
	})
}

// AddLike inserts a like. The unique (post, user) index turns a concurrent
// second like into ErrAlreadyLiked.
func (r *postPgRepository) AddLike(ctx context.Context, like *entities.Like) error {
	err := r.db.GetDB().WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrAlreadyLiked
	}
	return err
}

func (r *postPgRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.GetDB().WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entities.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *postPgRepository) Likes(ctx context.Context, postID string) ([]entities.Like, error) {
	likes := []entities.Like{}
	err := newestFirst(r.db.GetDB().WithContext(ctx)).Where("post_id = ?", postID).Find(&likes).Error
	return likes, err
}

func (r *postPgRepository) AddComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.GetDB().WithContext(ctx).Create(comment).Error
}

func (r *postPgRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	return r.db.GetDB().WithContext(ctx).
		Where("post_id = ? AND id = ?", postID, commentID).
		Delete(&entities.Comment{}).Error
}

func (r *postPgRepository) Comments(ctx context.Context, postID string) ([]entities.Comment, error) {
	comments := []entities.Comment{}
	err := newestFirst(r.db.GetDB().WithContext(ctx)).Where("post_id = ?", postID).Find(&comments).Error
	return comments, err
}
