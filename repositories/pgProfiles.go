package repositories

import (
	"context"

	"devconnector/db"
	"devconnector/entities"
	"devconnector/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profilePgRepository struct {
	db db.Database
}

func NewProfilePgRepository(database db.Database) ProfileRepository {
	return &profilePgRepository{db: database}
}

func withProfileChildren(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Experience", newestFirst).Preload("Education", newestFirst)
}

func (r *profilePgRepository) Create(ctx context.Context, profile *entities.Profile) error {
	return r.db.GetDB().WithContext(ctx).Create(profile).Error
}

// GetByUserID loads the profile of userID with its owner summary attached.
func (r *profilePgRepository) GetByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	tx := r.db.GetDB().WithContext(ctx)

	var profile entities.Profile
	if err := withProfileChildren(tx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	if err := attachOwners(tx, []*entities.Profile{&profile}); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profilePgRepository) List(ctx context.Context, q query.ListQuery) (query.Result[entities.Profile], error) {
	res, err := query.Find[entities.Profile](ctx, r.db.GetDB(), q, withProfileChildren)
	if err != nil {
		return res, err
	}

	// projections may leave user_id out; re-read it for the join
	ptrs := make([]*entities.Profile, len(res.Data))
	for i := range res.Data {
		ptrs[i] = &res.Data[i]
	}
	if len(q.Select) > 0 {
		if err := fillOwnerIDs(r.db.GetDB().WithContext(ctx), ptrs); err != nil {
			return res, err
		}
	}
	if err := attachOwners(r.db.GetDB().WithContext(ctx), ptrs); err != nil {
		return res, err
	}
	return res, nil
}

func (r *profilePgRepository) Update(ctx context.Context, profile *entities.Profile) error {
	return r.db.GetDB().WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

func (r *profilePgRepository) AddExperience(ctx context.Context, exp *entities.Experience) error {
	return r.db.GetDB().WithContext(ctx).Create(exp).Error
}

func (r *profilePgRepository) DeleteExperience(ctx context.Context, profileID, expID string) error {
	return r.db.GetDB().WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, expID).
		Delete(&entities.Experience{}).Error
}

func (r *profilePgRepository) AddEducation(ctx context.Context, edu *entities.Education) error {
	return r.db.GetDB().WithContext(ctx).Create(edu).Error
}

func (r *profilePgRepository) DeleteEducation(ctx context.Context, profileID, eduID string) error {
	return r.db.GetDB().WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, eduID).
		Delete(&entities.Education{}).Error
}

func (r *profilePgRepository) DeleteAccount(ctx context.Context, userID string) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&entities.Post{}).Select("id").Where("user_id = ?", userID)
		ownProfile := tx.Model(&entities.Profile{}).Select("id").Where("user_id = ?", userID)

		if err := tx.Where("user_id = ? OR post_id IN (?)", userID, ownPosts).Delete(&entities.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR post_id IN (?)", userID, ownPosts).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entities.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id IN (?)", ownProfile).Delete(&entities.Experience{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id IN (?)", ownProfile).Delete(&entities.Education{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entities.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&entities.User{}).Error
	})
}

func fillOwnerIDs(tx *gorm.DB, profiles []*entities.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	var rows []struct {
		ID     string
		UserID string
	}
	if err := tx.Model(&entities.Profile{}).Select("id", "user_id").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return err
	}
	owners := make(map[string]string, len(rows))
	for _, row := range rows {
		owners[row.ID] = row.UserID
	}
	for _, p := range profiles {
		p.UserID = owners[p.ID]
	}
	return nil
}

// attachOwners sets the name and avatar of each profile's user.
func attachOwners(tx *gorm.DB, profiles []*entities.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	var users []entities.UserSummary
	if err := tx.Model(&entities.User{}).Select("id", "name", "avatar").Where("id IN ?", ids).Scan(&users).Error; err != nil {
		return err
	}
	byID := make(map[string]entities.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, p := range profiles {
		if u, ok := byID[p.UserID]; ok {
			p.User = &u
		}
	}
	return nil
}
