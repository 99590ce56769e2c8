// Package attendance implements day-keyed attendance marking and listing.
package attendance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// Store is the attendance persistence surface. UpsertAttendance must apply
// the whole write atomically on the (worker, date) key.
type Store interface {
	UpsertAttendance(ctx context.Context, up models.AttendanceUpsert) (*models.AttendanceRecord, error)
	ListAttendance(ctx context.Context, q models.AttendanceQuery) ([]models.AttendanceRecord, error)
}

// Scoper rewrites listing queries per the visibility policy.
type Scoper interface {
	AttendanceFilter(actor models.Principal, q models.AttendanceQuery) models.AttendanceQuery
}

// MarkInput is one mark-attendance submission.
type MarkInput struct {
	WorkerID primitive.ObjectID
	Date     time.Time
	Status   models.AttendanceStatus
	TimeIn   *time.Time
	TimeOut  *time.Time
	Notes    string
}

// Service applies the attendance rules on top of the store.
type Service struct {
	store  Store
	scoper Scoper
	logger *zap.Logger
}

// NewService wires an attendance service instance.
func NewService(store Store, scoper Scoper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, scoper: scoper, logger: logger}
}

// Mark records or updates attendance for one (worker, day) key. Marking the
// same day twice converges on a single record; there is no duplicate error
// path for callers.
//
// A worker actor always marks themselves and always lands in pending: workers
// cannot self-verify. An admin actor marks any worker with any status, which
// is how verification of a pending day works. An admin mark with no status
// defaults a fresh record to present and leaves an existing status untouched.
func (s *Service) Mark(ctx context.Context, actor models.Principal, in MarkInput) (*models.AttendanceRecord, error) {
	if !actor.IsAdmin() {
		in.WorkerID = actor.ID
		in.Status = models.AttendancePending
	}

	if in.WorkerID.IsZero() {
		return nil, apperr.Validation("worker id is required")
	}
	if in.Date.IsZero() {
		return nil, apperr.Validation("date is required")
	}
	if in.Status != "" && !models.ValidAttendanceStatus(in.Status) {
		return nil, apperr.Validation("unknown attendance status %q", in.Status)
	}

	record, err := s.store.UpsertAttendance(ctx, models.AttendanceUpsert{
		Worker:        in.WorkerID,
		Date:          models.DayOf(in.Date),
		Status:        in.Status,
		DefaultStatus: models.AttendancePresent,
		TimeIn:        in.TimeIn,
		TimeOut:       in.TimeOut,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("attendance marked",
		zap.String("worker", record.Worker.Hex()),
		zap.Time("date", record.Date),
		zap.String("status", string(record.Status)))
	return record, nil
}

// List returns the attendance records visible to the actor. A worker's query
// is pinned to their own records; admins may filter by worker and day.
func (s *Service) List(ctx context.Context, actor models.Principal, q models.AttendanceQuery) ([]models.AttendanceRecord, error) {
	return s.store.ListAttendance(ctx, s.scoper.AttendanceFilter(actor, q))
}
