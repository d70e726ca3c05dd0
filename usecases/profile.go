package usecases

import (
	"context"
	"encoding/json"

	"devconnector/apperr"
	"devconnector/entities"
	"devconnector/query"
	"devconnector/repositories"
	"devconnector/utils"

	validation "github.com/go-ozzo/ozzo-validation"
)

// RepoLister looks up a developer's public repositories.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type ProfileUseCase struct {
	profiles repositories.ProfileRepository
	repos    RepoLister
}

func NewProfileUseCase(profiles repositories.ProfileRepository, repos RepoLister) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, repos: repos}
}

func (uc *ProfileUseCase) own(ctx context.Context, userID string) (*entities.Profile, error) {
	profile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.ErrProfileMissing
		}
		return nil, err
	}
	return profile, nil
}

// GetMe returns the caller's profile.
func (uc *ProfileUseCase) GetMe(ctx context.Context, userID string) (*entities.Profile, error) {
	return uc.own(ctx, userID)
}

func (uc *ProfileUseCase) GetByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	profile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("No profile found for user %s", userID)
		}
		return nil, err
	}
	return profile, nil
}

func (uc *ProfileUseCase) List(ctx context.Context, q query.ListQuery) (query.Result[entities.Profile], error) {
	return uc.profiles.List(ctx, q)
}

// Create builds the caller's profile. A user may only have one.
func (uc *ProfileUseCase) Create(ctx context.Context, userID string, in ProfileInput) (*entities.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.profiles.GetByUserID(ctx, userID); err == nil {
		return nil, apperr.ErrProfileExists
	} else if !isNotFound(err) {
		return nil, err
	}

	profile := &entities.Profile{
		UserID:         userID,
		Company:        in.Company,
		Location:       in.Location,
		Status:         in.Status,
		Skills:         []string(in.Skills),
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
	}
	links := []struct {
		dst *string
		raw string
	}{
		{&profile.Website, in.Website},
		{&profile.Social.Youtube, in.Youtube},
		{&profile.Social.Twitter, in.Twitter},
		{&profile.Social.Facebook, in.Facebook},
		{&profile.Social.Linkedin, in.Linkedin},
		{&profile.Social.Instagram, in.Instagram},
	}
	for _, l := range links {
		if err := setURL(l.dst, l.raw); err != nil {
			return nil, err
		}
	}

	if err := uc.profiles.Create(ctx, profile); err != nil {
		if isDuplicate(err) {
			return nil, apperr.ErrProfileExists
		}
		return nil, err
	}
	return uc.own(ctx, userID)
}

// Update changes the fields present in the input on the caller's existing
// profile.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in ProfileUpdateInput) (*entities.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	profile, err := uc.own(ctx, userID)
	if err != nil {
		return nil, err
	}

	texts := []struct {
		dst *string
		src *string
	}{
		{&profile.Company, in.Company},
		{&profile.Location, in.Location},
		{&profile.Status, in.Status},
		{&profile.Bio, in.Bio},
		{&profile.GithubUsername, in.GithubUsername},
	}
	for _, t := range texts {
		if t.src != nil {
			*t.dst = *t.src
		}
	}
	if in.Skills != nil {
		profile.Skills = []string(*in.Skills)
	}

	links := []struct {
		dst *string
		src *string
	}{
		{&profile.Website, in.Website},
		{&profile.Social.Youtube, in.Youtube},
		{&profile.Social.Twitter, in.Twitter},
		{&profile.Social.Facebook, in.Facebook},
		{&profile.Social.Linkedin, in.Linkedin},
		{&profile.Social.Instagram, in.Instagram},
	}
	for _, l := range links {
		if l.src == nil {
			continue
		}
		if err := setURL(l.dst, *l.src); err != nil {
			return nil, err
		}
	}

	if err := uc.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return uc.own(ctx, userID)
}

// Delete removes the caller's account, profile and posts.
func (uc *ProfileUseCase) Delete(ctx context.Context, userID string) error {
	if _, err := uc.profiles.GetByUserID(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperr.ErrNoProfileYet
		}
		return err
	}
	return uc.profiles.DeleteAccount(ctx, userID)
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*entities.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	profile, err := uc.own(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, _ := parseDate(in.From)
	to, _ := optionalDate(in.To)
	exp := &entities.Experience{
		ProfileID:   profile.ID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := uc.profiles.AddExperience(ctx, exp); err != nil {
		return nil, err
	}
	return uc.own(ctx, userID)
}

// DeleteExperience drops one entry; unknown ids leave the profile unchanged.
func (uc *ProfileUseCase) DeleteExperience(ctx context.Context, userID, expID string) (*entities.Profile, error) {
	profile, err := uc.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.profiles.DeleteExperience(ctx, profile.ID, expID); err != nil {
		return nil, err
	}
	return uc.own(ctx, userID)
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, userID string, in EducationInput) (*entities.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	profile, err := uc.own(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, _ := parseDate(in.From)
	to, _ := optionalDate(in.To)
	edu := &entities.Education{
		ProfileID:    profile.ID,
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := uc.profiles.AddEducation(ctx, edu); err != nil {
		return nil, err
	}
	return uc.own(ctx, userID)
}

// DeleteEducation drops one entry; unknown ids leave the profile unchanged.
func (uc *ProfileUseCase) DeleteEducation(ctx context.Context, userID, eduID string) (*entities.Profile, error) {
	profile, err := uc.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.profiles.DeleteEducation(ctx, profile.ID, eduID); err != nil {
		return nil, err
	}
	return uc.own(ctx, userID)
}

func (uc *ProfileUseCase) GithubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if err := validation.Validate(username, validation.Required); err != nil {
		return nil, apperr.BadRequest("Github username is required")
	}
	return uc.repos.Repos(ctx, username)
}

func setURL(dst *string, raw string) error {
	normalized, err := utils.NormalizeURL(raw)
	if err != nil {
		return apperr.BadRequest("Invalid url %q", raw)
	}
	*dst = normalized
	return nil
}
