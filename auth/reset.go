package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is how long an emailed reset token stays usable.
const ResetTokenTTL = 10 * time.Minute

// ResetToken is a freshly minted password reset credential. Only Hash and
// Expires are persisted; Plain is sent to the user once.
type ResetToken struct {
	Plain   string
	Hash    string
	Expires time.Time
}

func NewResetToken(now time.Time) (ResetToken, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return ResetToken{}, err
	}
	plain := hex.EncodeToString(buf)
	return ResetToken{
		Plain:   plain,
		Hash:    HashResetToken(plain),
		Expires: now.Add(ResetTokenTTL),
	}, nil
}

// HashResetToken is the one-way digest stored for a reset token.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
