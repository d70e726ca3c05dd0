package usecases

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Please add a name")),
		validation.Field(&r.Email, validation.Required.Error("Please add an email"), is.Email),
		validation.Field(&r.Password, validation.Required.Error("Please add a password"), validation.Length(minPasswordLength, 0)),
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r UpdateDetailsInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r UpdatePasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(minPasswordLength, 0)),
	)
}

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

func (r ForgotPasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ResetPasswordInput struct {
	Password string `json:"password"`
}

func (r ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, 0)),
	)
}

// StringList decodes either a JSON array of strings or a comma separated
// string.
type StringList []string

func (s *StringList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = cleanList(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return errors.New("skills must be a list or a comma separated string")
	}
	*s = cleanList(strings.Split(joined, ","))
	return nil
}

func cleanList(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type ProfileInput struct {
	Company        string     `json:"company"`
	Website        string     `json:"website"`
	Location       string     `json:"location"`
	Status         string     `json:"status"`
	Skills         StringList `json:"skills"`
	Bio            string     `json:"bio"`
	GithubUsername string     `json:"githubusername"`
	Youtube        string     `json:"youtube"`
	Twitter        string     `json:"twitter"`
	Facebook       string     `json:"facebook"`
	Linkedin       string     `json:"linkedin"`
	Instagram      string     `json:"instagram"`
}

func (r ProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("Please add your current status")),
		validation.Field(&r.Skills, validation.Required.Error("Please add your current skills")),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Youtube, is.URL),
		validation.Field(&r.Twitter, is.URL),
		validation.Field(&r.Facebook, is.URL),
		validation.Field(&r.Linkedin, is.URL),
		validation.Field(&r.Instagram, is.URL),
	)
}

// ProfileUpdateInput only changes the fields that are present.
type ProfileUpdateInput struct {
	Company        *string     `json:"company"`
	Website        *string     `json:"website"`
	Location       *string     `json:"location"`
	Status         *string     `json:"status"`
	Skills         *StringList `json:"skills"`
	Bio            *string     `json:"bio"`
	GithubUsername *string     `json:"githubusername"`
	Youtube        *string     `json:"youtube"`
	Twitter        *string     `json:"twitter"`
	Facebook       *string     `json:"facebook"`
	Linkedin       *string     `json:"linkedin"`
	Instagram      *string     `json:"instagram"`
}

func (r ProfileUpdateInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.NilOrNotEmpty),
		validation.Field(&r.Skills, validation.NilOrNotEmpty),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Youtube, is.URL),
		validation.Field(&r.Twitter, is.URL),
		validation.Field(&r.Facebook, is.URL),
		validation.Field(&r.Linkedin, is.URL),
		validation.Field(&r.Instagram, is.URL),
	)
}

type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r ExperienceInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Please add your current title")),
		validation.Field(&r.Company, validation.Required.Error("Please add your current company")),
		validation.Field(&r.From, validation.Required.Error("Please add the start date"), validation.By(isDate)),
		validation.Field(&r.To, validation.By(isDate)),
	)
}

type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r EducationInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.School, validation.Required.Error("Please add the name of your school")),
		validation.Field(&r.Degree, validation.Required.Error("Please add the degree you acquired in this school")),
		validation.Field(&r.FieldOfStudy, validation.Required.Error("Please add your field of study")),
		validation.Field(&r.From, validation.Required.Error("Please add the start date"), validation.By(isDate)),
		validation.Field(&r.To, validation.By(isDate)),
	)
}

type PostInput struct {
	Text string `json:"text"`
}

func (r PostInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error("Text is required")),
	)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain calendar dates.
func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func isDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := parseDate(s); err != nil {
		return errors.New("must be a valid date")
	}
	return nil
}

// optionalDate parses s, returning nil for an empty string.
func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
