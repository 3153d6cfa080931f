package store

import (
	"context"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CommitExists(ctx context.Context, sha string) (bool, error) {
	n, err := s.commits.CountDocuments(ctx, bson.M{"sha": sha}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertCommit stores commit and reports false when its sha is already stored.
func (s *Store) InsertCommit(ctx context.Context, commit models.NormalizedCommit) (bool, error) {
	_, err := s.commits.InsertOne(ctx, commit)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListCommitsBetween(ctx context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error) {
	return s.findCommits(ctx, bson.M{
		"userId":      userID,
		"committedAt": bson.M{"$gte": since, "$lt": until},
	})
}

func (s *Store) ListUnprocessedCommits(ctx context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error) {
	return s.findCommits(ctx, bson.M{
		"userId":      userID,
		"processed":   false,
		"committedAt": bson.M{"$gte": since, "$lt": until},
	})
}

func (s *Store) findCommits(ctx context.Context, filter bson.M) ([]models.NormalizedCommit, error) {
	cur, err := s.commits.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "committedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}

	commits := []models.NormalizedCommit{}
	if err := cur.All(ctx, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

func (s *Store) MarkCommitsProcessed(ctx context.Context, shas []string) error {
	if len(shas) == 0 {
		return nil
	}

	_, err := s.commits.UpdateMany(ctx,
		bson.M{"sha": bson.M{"$in": shas}},
		bson.M{"$set": bson.M{"processed": true}},
	)
	return err
}

func (s *Store) PurgeCommitsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.commits.DeleteMany(ctx, bson.M{"fetchedAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
