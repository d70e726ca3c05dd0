package middleware

import (
	"errors"
	"log"
	"net/http"

	"devconnector/apperr"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes the API reports as client errors.
const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// ErrorHandler renders the last error pushed with c.Error as
// {success: false, Error: message}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		status, message := Translate(c.Errors.Last().Err)
		if status >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last().Err)
		}
		c.JSON(status, gin.H{
			"success": false,
			"Error":   message,
		})
	}
}

// Translate maps an error to the status code and message sent to clients.
func Translate(err error) (int, string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Status(), appErr.Message
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, verrs.Error()
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, apperr.ErrResourceNotFound.Message
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusBadRequest, apperr.ErrDuplicateField.Message
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusBadRequest, apperr.ErrDuplicateField.Message
		case pgInvalidText:
			return http.StatusNotFound, apperr.ErrResourceNotFound.Message
		}
	}

	return http.StatusInternalServerError, apperr.ErrServer.Message
}
