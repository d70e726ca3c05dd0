package usecases

import (
	"errors"
	"strings"
	"time"

	"devconnector/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPublisher receives post activity for live subscribers.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func utcNow() time.Time { return time.Now().UTC() }

// checkID rejects ids that cannot name a stored record.
func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return apperr.NotFound("Resource not found with id of %s", id)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
