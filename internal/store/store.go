// Package store persists digest data in MongoDB.
package store

import (
	"errors"

	"dailydigest/internal/db"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store is a set of collection handles. The zero value is not usable; build
// one with New once db.InitDB has run.
type Store struct {
	users        *mongo.Collection
	repositories *mongo.Collection
	commits      *mongo.Collection
	reports      *mongo.Collection
	deliveries   *mongo.Collection
	credentials  *mongo.Collection
	operators    *mongo.Collection
}

func New() *Store {
	return &Store{
		users:        db.Users,
		repositories: db.Repositories,
		commits:      db.Commits,
		reports:      db.Reports,
		deliveries:   db.Deliveries,
		credentials:  db.Credentials,
		operators:    db.Operators,
	}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
