package httpHandler

import (
	"net/http"

	"devconnector/middleware"
	"devconnector/usecases"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	useCase *usecases.PostUseCase
}

func NewPostHandler(useCase *usecases.PostUseCase) *PostHandler {
	return &PostHandler{useCase: useCase}
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req usecases.PostInput
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.useCase.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, post)
}

// GetPosts handles GET /api/v1/posts
func (h *PostHandler) GetPosts(c *gin.Context) {
	res, err := h.useCase.List(c.Request.Context(), middleware.ParsedQuery(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetPost handles GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, post)
}

// UpdatePost handles PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req usecases.PostInput
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.useCase.Edit(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, post)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	deleted(c)
}

// LikePost handles PUT /api/v1/posts/likes/:id
func (h *PostHandler) LikePost(c *gin.Context) {
	likes, err := h.useCase.Like(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	okCount(c, likes)
}

// UnlikePost handles PUT /api/v1/posts/unlike/:id
func (h *PostHandler) UnlikePost(c *gin.Context) {
	likes, err := h.useCase.Unlike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	okCount(c, likes)
}

// CommentPost handles PUT /api/v1/posts/comment/:id
func (h *PostHandler) CommentPost(c *gin.Context) {
	var req usecases.PostInput
	if !bindJSON(c, &req) {
		return
	}
	comments, err := h.useCase.Comment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	okCount(c, comments)
}

// DeleteComment handles DELETE /api/v1/posts/comment/:id/:comment_id
func (h *PostHandler) DeleteComment(c *gin.Context) {
	comments, err := h.useCase.DeleteComment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("comment_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	okCount(c, comments)
}
