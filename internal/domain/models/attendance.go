package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus enumerates the attendance state set. "pending" is the
// transient state a worker's self-marked day stays in until an admin verifies
// it; the rest are stable outcomes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half-day"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendancePending AttendanceStatus = "pending"
)

// ValidAttendanceStatus reports whether s is one of the known states.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave, AttendancePending:
		return true
	}
	return false
}

// AttendanceRecord holds one row per (worker, calendar day). Date carries the
// midnight-truncated day; the pair is backed by a unique compound index.
type AttendanceRecord struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Worker  primitive.ObjectID `bson:"worker" json:"worker"`
	Date    time.Time          `bson:"date" json:"date"`
	TimeIn  *time.Time         `bson:"timeIn,omitempty" json:"timeIn,omitempty"`
	TimeOut *time.Time         `bson:"timeOut,omitempty" json:"timeOut,omitempty"`
	Status  AttendanceStatus   `bson:"status" json:"status"`
	Notes   string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DayOf truncates t to midnight UTC. Every attendance key goes through this
// so that two submissions at 09:00 and 14:00 land on the same record.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AttendanceUpsert carries the resolved write for one (worker, day) key.
// Status empty means "leave an existing status untouched and fall back to
// DefaultStatus on insert". The storage layer applies this atomically so
// concurrent marks for the same day converge on a single record.
type AttendanceUpsert struct {
	Worker        primitive.ObjectID
	Date          time.Time
	Status        AttendanceStatus
	DefaultStatus AttendanceStatus
	TimeIn        *time.Time
	TimeOut       *time.Time
	Notes         string
}

// AttendanceQuery filters attendance listings. Zero values mean "no filter".
type AttendanceQuery struct {
	Worker primitive.ObjectID
	Date   time.Time
}
