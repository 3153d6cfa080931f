package store

import (
	"context"
	"time"

	"dailydigest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateReportIfAbsent inserts report unless one exists for its (userId, date).
// Racing upserts are settled by the unique index; the loser reads the winner.
func (s *Store) CreateReportIfAbsent(ctx context.Context, report models.Report) (models.Report, bool, error) {
	res, err := s.reports.UpdateOne(ctx,
		bson.M{"userId": report.UserID, "date": report.Date},
		bson.M{"$setOnInsert": report},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return models.Report{}, false, err
	}
	if err == nil && res.UpsertedCount == 1 {
		return report, true, nil
	}

	existing, err := s.FindReport(ctx, report.UserID, report.Date)
	return existing, false, err
}

func (s *Store) FindReport(ctx context.Context, userID, date string) (models.Report, error) {
	var report models.Report
	err := s.reports.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&report)
	return report, notFound(err)
}

func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	var report models.Report
	err := s.reports.FindOne(ctx, bson.M{"id": id}).Decode(&report)
	return report, notFound(err)
}

// ListReports returns the user's newest reports first.
func (s *Store) ListReports(ctx context.Context, userID string, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.reports.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}

	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// TransitionReport moves the report to status to if its current status is in from.
func (s *Store) TransitionReport(
	ctx context.Context,
	id string,
	from []models.ReportStatus,
	to models.ReportStatus,
	sentAt *time.Time,
) (bool, error) {
	set := bson.M{"status": to}
	if sentAt != nil {
		set["sentAt"] = *sentAt
	}

	res, err := s.reports.UpdateOne(ctx,
		bson.M{"id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
