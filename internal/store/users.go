package store

import (
	"context"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ListActiveUsers(ctx context.Context) ([]models.UserConfig, error) {
	return s.findUsers(ctx, bson.M{"active": true})
}

func (s *Store) ListUsers(ctx context.Context) ([]models.UserConfig, error) {
	return s.findUsers(ctx, bson.M{})
}

func (s *Store) findUsers(ctx context.Context, filter bson.M) ([]models.UserConfig, error) {
	cur, err := s.users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}

	users := []models.UserConfig{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.UserConfig, error) {
	var user models.UserConfig
	err := s.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	return user, notFound(err)
}

func (s *Store) CreateUser(ctx context.Context, user models.UserConfig) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Store) UpdateUser(ctx context.Context, user models.UserConfig) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := s.users.UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": bson.M{
		"displayName":    user.DisplayName,
		"githubUsername": user.GitHubUsername,
		"email":          user.Email,
		"reportTime":     user.ReportTime,
		"timezone":       user.Timezone,
		"active":         user.Active,
		"updatedAt":      user.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
