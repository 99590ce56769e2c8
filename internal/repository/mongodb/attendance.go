package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sideledger/sideledger/internal/domain/models"
)

// UpsertAttendance applies a mark-attendance write for one (worker, day) key
// in a single FindOneAndUpdate so concurrent marks cannot race into duplicate
// records; the unique index backs this up and the last writer wins.
func (r *Repository) UpsertAttendance(ctx context.Context, up models.AttendanceUpsert) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()

	set := bson.M{"updatedAt": now}
	if up.Status != "" {
		set["status"] = up.Status
	}
	if up.TimeOut != nil {
		set["timeOut"] = up.TimeOut
	}

	setOnInsert := bson.M{
		"worker":    up.Worker,
		"date":      up.Date,
		"createdAt": now,
	}
	if up.Status == "" {
		setOnInsert["status"] = up.DefaultStatus
	}
	if up.TimeIn != nil {
		setOnInsert["timeIn"] = up.TimeIn
	}
	if up.Notes != "" {
		setOnInsert["notes"] = up.Notes
	}

	var record models.AttendanceRecord
	err := r.collection(attendanceCollection).FindOneAndUpdate(ctx,
		bson.M{"worker": up.Worker, "date": up.Date},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &record, nil
}

// ListAttendance returns records matching the query, newest day first.
func (r *Repository) ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error) {
	filter := bson.M{}
	if !q.Worker.IsZero() {
		filter["worker"] = q.Worker
	}
	if !q.Date.IsZero() {
		filter["date"] = q.Date
	}

	cursor, err := r.collection(attendanceCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.AttendanceRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return records, nil
}
