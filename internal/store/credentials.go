package store

import (
	"context"
	"errors"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Token returns the user's GitHub access token; ok is false when none is stored.
func (s *Store) Token(ctx context.Context, userID string) (string, bool, error) {
	var cred models.Credential
	err := s.credentials.FindOne(ctx, bson.M{"userId": userID, "provider": models.ProviderGitHub}).Decode(&cred)
	if errors.Is(notFound(err), ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return cred.AccessToken, cred.AccessToken != "", nil
}

func (s *Store) UpsertCredential(ctx context.Context, cred models.Credential) error {
	if cred.Provider == "" {
		cred.Provider = models.ProviderGitHub
	}
	cred.UpdatedAt = time.Now().UTC()

	_, err := s.credentials.UpdateOne(ctx,
		bson.M{"userId": cred.UserID, "provider": cred.Provider},
		bson.M{"$set": cred},
		options.Update().SetUpsert(true),
	)
	return err
}
