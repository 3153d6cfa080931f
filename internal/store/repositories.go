package store

import (
	"context"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ListRepositories(ctx context.Context, userID string) ([]models.Repository, error) {
	return s.findRepositories(ctx, bson.M{"userId": userID})
}

func (s *Store) ListMonitoredRepositories(ctx context.Context, userID string) ([]models.Repository, error) {
	return s.findRepositories(ctx, bson.M{"userId": userID, "monitored": true})
}

func (s *Store) findRepositories(ctx context.Context, filter bson.M) ([]models.Repository, error) {
	cur, err := s.repositories.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return nil, err
	}

	repos := []models.Repository{}
	if err := cur.All(ctx, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// EnsureRepository inserts repo unless the user already tracks its full name.
// Existing records keep their monitored flag.
func (s *Store) EnsureRepository(ctx context.Context, repo models.Repository) (bool, error) {
	if repo.CreatedAt.IsZero() {
		repo.CreatedAt = time.Now().UTC()
	}

	res, err := s.repositories.UpdateOne(ctx,
		bson.M{"userId": repo.UserID, "fullName": repo.FullName},
		bson.M{"$setOnInsert": repo},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// ToggleRepository flips the monitored flag of one of the user's repositories.
func (s *Store) ToggleRepository(ctx context.Context, userID, repoID string) (models.Repository, error) {
	filter := bson.M{"userId": userID, "id": repoID}

	var repo models.Repository
	if err := s.repositories.FindOne(ctx, filter).Decode(&repo); err != nil {
		return repo, notFound(err)
	}

	repo.Monitored = !repo.Monitored
	if _, err := s.repositories.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"monitored": repo.Monitored}}); err != nil {
		return repo, err
	}
	return repo, nil
}
