package store

import (
	"context"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) GetOperator(ctx context.Context, username string) (models.Operator, error) {
	var op models.Operator
	err := s.operators.FindOne(ctx, bson.M{"username": username}).Decode(&op)
	return op, notFound(err)
}

// CreateOperator stores op whose Password must already be a bcrypt hash.
func (s *Store) CreateOperator(ctx context.Context, op models.Operator) error {
	if op.Created.IsZero() {
		op.Created = time.Now().UTC()
	}

	_, err := s.operators.InsertOne(ctx, op)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
