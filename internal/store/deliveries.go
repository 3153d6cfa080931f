package store

import (
	"context"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) AppendDelivery(ctx context.Context, attempt models.DeliveryAttempt) error {
	_, err := s.deliveries.InsertOne(ctx, attempt)
	return err
}

func (s *Store) ListDeliveries(ctx context.Context, reportID string) ([]models.DeliveryAttempt, error) {
	cur, err := s.deliveries.Find(ctx,
		bson.M{"reportId": reportID},
		options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	attempts := []models.DeliveryAttempt{}
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
