package db

import (
	"context"
	"log"
	"time"

	"dailydigest/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Ctx = context.Background()
var RDB *redis.Client
var Client *mongo.Client

var Users *mongo.Collection
var Repositories *mongo.Collection
var Commits *mongo.Collection
var Reports *mongo.Collection
var Deliveries *mongo.Collection
var Credentials *mongo.Collection
var Operators *mongo.Collection
var Events *mongo.Collection

func InitDB(database string) error {
	var err error

	Client, err = mongo.Connect(
		Ctx,
		options.Client().ApplyURI(env.MONGO_URI),
	)
	if err != nil {
		return err
	}

	err = Client.Ping(Ctx, nil)
	if err != nil {
		log.Printf("COULD NOT CONNECT TO MONGODB: %v", err)
		return err
	}

	if database == "" {
		database = env.MONGO_DATABASE
	}

	// loading collections
	Users = GetCollection(database, "users", Client)
	Repositories = GetCollection(database, "repositories", Client)
	Commits = GetCollection(database, "commits", Client)
	Reports = GetCollection(database, "reports", Client)
	Deliveries = GetCollection(database, "deliveries", Client)
	Credentials = GetCollection(database, "credentials", Client)
	Operators = GetCollection(database, "operators", Client)
	Events = GetCollection(database, "events", Client)

	return EnsureIndexes(Ctx)
}

func GetCollection(database string, collectionName string, client *mongo.Client) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

// EnsureIndexes creates the unique keys the stores rely on for idempotent writes.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		Users: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		Repositories: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "fullName", Value: 1}}, Options: unique},
		},
		Commits: {
			{Keys: bson.D{{Key: "sha", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "committedAt", Value: 1}}},
			{Keys: bson.D{{Key: "fetchedAt", Value: 1}}},
		},
		Reports: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		Deliveries: {
			{Keys: bson.D{{Key: "reportId", Value: 1}, {Key: "attemptedAt", Value: 1}}},
		},
		Credentials: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "provider", Value: 1}}, Options: unique},
		},
		Operators: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return nil
}

func InitCache() error {
	var err error

	RDB = redis.NewClient(&redis.Options{
		Addr:     env.REDIS_ADDR,
		Password: env.REDIS_PASSWORD,
		DB:       env.REDIS_DB,
	})

	err = RDB.Ping(Ctx).Err()
	if err != nil {
		log.Printf("COULD NOT CONNECT TO REDIS: %v", err)
		return err
	}

	return nil
}

// CacheEnabled reports whether InitCache has wired a redis client.
func CacheEnabled() bool {
	return RDB != nil
}

func CacheSetTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	return RDB.Set(ctx, key, value, ttl).Err()
}

func CacheGet(ctx context.Context, key string) (string, error) {
	return RDB.Get(ctx, key).Result()
}

// IsCacheMiss reports whether err is redis' missing-key error.
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
