package httpHandler

import (
	"net/http"

	"devconnector/middleware"
	"devconnector/usecases"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	useCase *usecases.ProfileUseCase
}

func NewProfileHandler(useCase *usecases.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{useCase: useCase}
}

// GetProfiles handles GET /api/v1/profile
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	res, err := h.useCase.List(c.Request.Context(), middleware.ParsedQuery(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetMe handles GET /api/v1/profile/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.useCase.GetMe(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// GetProfile handles GET /api/v1/profile/:user_id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.useCase.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// CreateProfile handles POST /api/v1/profile
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req usecases.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.useCase.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req usecases.ProfileUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.useCase.Update(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// DeleteProfile handles DELETE /api/v1/profile
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	deleted(c)
}

// AddExperience handles PUT /api/v1/profile/experience
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req usecases.ExperienceInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.useCase.AddExperience(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, profile)
}

// DeleteExperience handles DELETE /api/v1/profile/experience/:exp_id
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	profile, err := h.useCase.DeleteExperience(c.Request.Context(), middleware.CurrentUserID(c), c.Param("exp_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// AddEducation handles PUT /api/v1/profile/education
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req usecases.EducationInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.useCase.AddEducation(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, profile)
}

// DeleteEducation handles DELETE /api/v1/profile/education/:edu_id
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	profile, err := h.useCase.DeleteEducation(c.Request.Context(), middleware.CurrentUserID(c), c.Param("edu_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// GetGithubRepos handles GET /api/v1/profile/github/:username
func (h *ProfileHandler) GetGithubRepos(c *gin.Context) {
	repos, err := h.useCase.GithubRepos(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, repos)
}
