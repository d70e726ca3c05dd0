package repositories

import (
	"context"
	"time"

	"devconnector/entities"
	"devconnector/query"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByResetToken(ctx context.Context, hash string, now time.Time) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entities.Profile, error)
	List(ctx context.Context, q query.ListQuery) (query.Result[entities.Profile], error)
	Update(ctx context.Context, profile *entities.Profile) error
	AddExperience(ctx context.Context, exp *entities.Experience) error
	DeleteExperience(ctx context.Context, profileID, expID string) error
	AddEducation(ctx context.Context, edu *entities.Education) error
	DeleteEducation(ctx context.Context, profileID, eduID string) error
	// DeleteAccount removes the user together with their profile, posts,
	// likes and comments.
	DeleteAccount(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	GetByID(ctx context.Context, id string) (*entities.Post, error)
	List(ctx context.Context, q query.ListQuery) (query.Result[entities.Post], error)
	UpdateText(ctx context.Context, post *entities.Post) error
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, like *entities.Like) error
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	Likes(ctx context.Context, postID string) ([]entities.Like, error)
	AddComment(ctx context.Context, comment *entities.Comment) error
	RemoveComment(ctx context.Context, postID, commentID string) error
	Comments(ctx context.Context, postID string) ([]entities.Comment, error)
}

// ProfileFields are the list-query fields accepted on profiles.
var ProfileFields = query.Fields{
	"status":         "status",
	"company":        "company",
	"location":       "location",
	"website":        "website",
	"bio":            "bio",
	"githubusername": "github_username",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

// PostFields are the list-query fields accepted on posts.
var PostFields = query.Fields{
	"user":      "user_id",
	"name":      "name",
	"text":      "text",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}
