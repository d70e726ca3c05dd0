package usecases

import (
	"context"

	"devconnector/apperr"
	"devconnector/entities"
	"devconnector/query"
	"devconnector/repositories"
)

// Feed event types published by PostUseCase.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventPostUnliked    = "post_unliked"
	EventCommentAdded   = "comment_added"
	EventCommentRemoved = "comment_removed"
)

type PostUseCase struct {
	posts  repositories.PostRepository
	events EventPublisher
}

func NewPostUseCase(posts repositories.PostRepository, events EventPublisher) *PostUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &PostUseCase{posts: posts, events: events}
}

// Create stores a post with a snapshot of the author's name and avatar.
func (uc *PostUseCase) Create(ctx context.Context, author *entities.User, in PostInput) (*entities.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post := &entities.Post{
		UserID:   author.ID,
		Text:     in.Text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []entities.Like{},
		Comments: []entities.Comment{},
	}
	if err := uc.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	uc.events.Publish(EventPostCreated, post)
	return post, nil
}

func (uc *PostUseCase) List(ctx context.Context, q query.ListQuery) (query.Result[entities.Post], error) {
	return uc.posts.List(ctx, q)
}

func (uc *PostUseCase) Get(ctx context.Context, id string) (*entities.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("No post found with the id of %s", id)
		}
		return nil, err
	}
	return post, nil
}

// Edit replaces the text of a post owned by userID.
func (uc *PostUseCase) Edit(ctx context.Context, userID, id string, in PostInput) (*entities.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperr.Forbidden("You are not authorized to update this post")
	}

	post.Text = in.Text
	if err := uc.posts.UpdateText(ctx, post); err != nil {
		return nil, err
	}
	uc.events.Publish(EventPostUpdated, post)
	return post, nil
}

func (uc *PostUseCase) Delete(ctx context.Context, userID, id string) error {
	post, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperr.Forbidden("You are not authorized to delete this post")
	}

	if err := uc.posts.Delete(ctx, id); err != nil {
		return err
	}
	uc.events.Publish(EventPostDeleted, map[string]string{"id": id})
	return nil
}

// Like records userID's like and returns the post's likes, newest first.
func (uc *PostUseCase) Like(ctx context.Context, userID, id string) ([]entities.Like, error) {
	post, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.LikedBy(userID) {
		return nil, apperr.ErrAlreadyLiked
	}

	if err := uc.posts.AddLike(ctx, &entities.Like{PostID: id, UserID: userID}); err != nil {
		return nil, err
	}
	likes, err := uc.posts.Likes(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.events.Publish(EventPostLiked, likeEvent{PostID: id, User: userID, Count: len(likes)})
	return likes, nil
}

func (uc *PostUseCase) Unlike(ctx context.Context, userID, id string) ([]entities.Like, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}

	removed, err := uc.posts.RemoveLike(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperr.ErrNotLiked
	}
	likes, err := uc.posts.Likes(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.events.Publish(EventPostUnliked, likeEvent{PostID: id, User: userID, Count: len(likes)})
	return likes, nil
}

// Comment adds a comment by author and returns the post's comments.
func (uc *PostUseCase) Comment(ctx context.Context, author *entities.User, id string, in PostInput) ([]entities.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		PostID: id,
		UserID: author.ID,
		Text:   in.Text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := uc.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	comments, err := uc.posts.Comments(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.events.Publish(EventCommentAdded, commentEvent{PostID: id, Comment: comment})
	return comments, nil
}

// DeleteComment removes a comment written by userID.
func (uc *PostUseCase) DeleteComment(ctx context.Context, userID, id, commentID string) ([]entities.Comment, error) {
	post, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, apperr.NotFound("That comment does not exist")
	}
	if comment.UserID != userID {
		return nil, apperr.Forbidden("You are not authorized to delete this comment")
	}

	if err := uc.posts.RemoveComment(ctx, id, commentID); err != nil {
		return nil, err
	}
	comments, err := uc.posts.Comments(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.events.Publish(EventCommentRemoved, commentEvent{PostID: id, Comment: comment})
	return comments, nil
}

type likeEvent struct {
	PostID string `json:"post"`
	User   string `json:"user"`
	Count  int    `json:"count"`
}

type commentEvent struct {
	PostID  string            `json:"post"`
	Comment *entities.Comment `json:"comment"`
}
