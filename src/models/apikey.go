package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type APIKey struct {
	KeyID     string     `json:"key_id"`
	UserID    string     `json:"user_id"`
	Label     string     `json:"label"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// MintedAPIKey carries the plaintext secret. It is only ever returned
// once, at mint time; afterwards only the hash exists server side.
type MintedAPIKey struct {
	KeyID     string    `json:"key_id"`
	Label     string    `json:"label"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

func HashAPIKey(secret string) string {
	digest := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(digest[:])
}
