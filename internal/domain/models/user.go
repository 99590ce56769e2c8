package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes administrators from site workers.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// WorkerStatus is the soft-delete lifecycle tag. Workers are never removed
// once attendance or project history references them.
type WorkerStatus string

const (
	StatusActive   WorkerStatus = "active"
	StatusInactive WorkerStatus = "inactive"
)

// User is the single principal type for both roles. The worker-only fields
// (Phone, WorkerRole, Specialty, DailyRate, Status) are absent for admins.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`

	Phone      string       `bson:"phone,omitempty" json:"phone,omitempty"`
	WorkerRole string       `bson:"workerRole,omitempty" json:"workerRole,omitempty"`
	Specialty  string       `bson:"specialty,omitempty" json:"specialty,omitempty"`
	DailyRate  float64      `bson:"dailyRate,omitempty" json:"dailyRate,omitempty"`
	Status     WorkerStatus `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Principal is the identity attached to every authenticated request. It is an
// identity claim only; privileged paths re-verify the role from the database.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

// IsAdmin reports whether the principal carries the admin role claim.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// WorkerUpdate carries the admin-editable employment fields. Zero values are
// left untouched.
type WorkerUpdate struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	WorkerRole string  `json:"workerRole"`
	Specialty  string  `json:"specialty"`
	DailyRate  float64 `json:"dailyRate"`
}
