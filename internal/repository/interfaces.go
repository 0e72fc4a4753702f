package repository

import (
	"context"
	"errors"

	"codeassist-be/internal/domain"
)

// ErrProfileNotFound is returned when no profile document exists for a uid.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository mirrors user profiles into the document store.
type ProfileRepository interface {
	// Upsert merges the given fields into the profile document for uid.
	// Fields not present in the payload are preserved. A document created
	// by this call is seeded with role "user" unless the payload sets one.
	Upsert(ctx context.Context, uid string, fields map[string]interface{}) error

	// Get fetches the profile document for uid.
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
}
