package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"devconnector/apperr"
	"devconnector/auth"
	"devconnector/entities"
	"devconnector/mail"
	"devconnector/repositories"
	"devconnector/utils"
)

// Session is a user together with a freshly signed token.
type Session struct {
	User  *entities.User
	Token string
}

type AuthUseCase struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
	mailer mail.Sender
	now    func() time.Time
}

func NewAuthUseCase(users repositories.UserRepository, tokens *auth.TokenService, mailer mail.Sender) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens, mailer: mailer, now: utcNow}
}

// WithClock replaces the time source used for reset token expiry.
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

func (uc *AuthUseCase) session(user *entities.User) (*Session, error) {
	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

// Register creates an account with a gravatar avatar and signs the user in.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := in.Email

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.ErrDuplicateField
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	avatar, err := utils.NormalizeURL(utils.GravatarURL(email))
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         in.Name,
		Email:        email,
		Avatar:       avatar,
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperr.ErrDuplicateField
		}
		return nil, err
	}
	return uc.session(user)
}

// Login answers unknown emails and wrong passwords with the same error.
func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperr.BadRequest("Please provide an email and a password")
	}

	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePassword(in.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	return uc.session(user)
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entities.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *AuthUseCase) UpdateDetails(ctx context.Context, userID string, in UpdateDetailsInput) (*entities.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			if _, err := uc.users.GetByEmail(ctx, email); err == nil {
				return nil, apperr.ErrDuplicateField
			} else if !isNotFound(err) {
				return nil, err
			}
		}
		user.Email = email
	}

	if err := uc.users.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperr.ErrDuplicateField
		}
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, userID string, in UpdatePasswordInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := auth.ComparePassword(in.CurrentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, apperr.ErrIncorrectPassword
		}
		return nil, err
	}

	if user.PasswordHash, err = auth.HashPassword(in.NewPassword); err != nil {
		return nil, err
	}
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.session(user)
}

// ForgotPassword stores a reset token for the account and mails the link
// built by resetURL. The token is withdrawn again if the mail fails.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in ForgotPasswordInput, resetURL func(token string) string) error {
	if err := in.Validate(); err != nil {
		return err
	}
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound("There is no user with that email")
		}
		return err
	}

	token, err := auth.NewResetToken(uc.now())
	if err != nil {
		return err
	}
	user.ResetPasswordToken = &token.Hash
	user.ResetPasswordExpire = &token.Expires
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Password reset token",
		Body: fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. "+
			"Please make a PUT request to:\n\n%s", resetURL(token.Plain)),
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		log.Printf("reset mail to %s failed: %v", user.Email, err)
		user.ClearResetToken()
		if err := uc.users.Update(ctx, user); err != nil {
			log.Printf("failed to withdraw reset token for %s: %v", user.ID, err)
		}
		return apperr.ErrEmailNotSent
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and sets a new password.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, plainToken string, in ResetPasswordInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByResetToken(ctx, auth.HashResetToken(plainToken), uc.now())
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	if user.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
		return nil, err
	}
	user.ClearResetToken()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.session(user)
}
