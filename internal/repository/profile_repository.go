package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"codeassist-be/internal/domain"
	"codeassist-be/pkg/logger"
)

const usersCollection = "users"

// DefaultRole is assigned to newly created profile documents.
const DefaultRole = "user"

// FirestoreProfileRepository persists user profiles in a Firestore
// users collection
type FirestoreProfileRepository struct {
	client *firestore.Client
	logger *logger.Logger
}

// NewFirestoreProfileRepository creates a new Firestore-backed profile repository
func NewFirestoreProfileRepository(client *firestore.Client, logger *logger.Logger) ProfileRepository {
	return &FirestoreProfileRepository{
		client: client,
		logger: logger,
	}
}

// Upsert merges profile fields into users/{uid}, creating the document with
// a default role when it does not exist. Racing upserts are safe: the last
// write wins per field and unsent fields are preserved by the merge.
func (r *FirestoreProfileRepository) Upsert(ctx context.Context, uid string, fields map[string]interface{}) error {
	ref := r.client.Collection(usersCollection).Doc(uid)

	snap, err := ref.Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to read profile %q: %w", uid, err)
	}

	if snap != nil && snap.Exists() {
		r.logger.WithField("uid", uid).Debug("Updating existing profile document")
		if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
			return fmt.Errorf("failed to merge profile %q: %w", uid, err)
		}
		return nil
	}

	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	if _, ok := payload["role"]; !ok {
		payload["role"] = DefaultRole
	}

	r.logger.WithField("uid", uid).Info("Creating new profile document")
	if _, err := ref.Set(ctx, payload); err != nil {
		return fmt.Errorf("failed to create profile %q: %w", uid, err)
	}
	return nil
}

// Get fetches the profile document for uid
func (r *FirestoreProfileRepository) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	snap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile %q: %w", uid, err)
	}

	var profile domain.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %q: %w", uid, err)
	}
	return &profile, nil
}
