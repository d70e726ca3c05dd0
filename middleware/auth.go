package middleware

import (
	"strings"

	"devconnector/apperr"
	"devconnector/auth"
	"devconnector/entities"
	"devconnector/repositories"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie is the cookie carrying the session token.
	TokenCookie = "token"

	userIDKey = "userID"
	userKey   = "user"
)

// tokenFromRequest looks for a bearer header first, then the session cookie.
func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if token, err := c.Cookie(TokenCookie); err == nil {
		return token
	}
	return ""
}

// Protect rejects requests without a valid session token and loads the
// caller into the context.
func Protect(tokens *auth.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abort(c, apperr.ErrInvalidToken)
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			abort(c, err)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abort(c, apperr.ErrInvalidToken)
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUserID returns the id stored by Protect.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// CurrentUser returns the user stored by Protect.
func CurrentUser(c *gin.Context) *entities.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*entities.User); ok {
			return u
		}
	}
	return nil
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
