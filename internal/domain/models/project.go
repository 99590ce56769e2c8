package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

// Project is a construction site with its assigned worker roster. The Workers
// set drives worker-side visibility scoping and must only reference principals
// with the worker role.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Client      string               `bson:"client" json:"client"`
	Location    string               `bson:"location" json:"location"`
	Budget      float64              `bson:"budget" json:"budget"`
	StartDate   time.Time            `bson:"startDate" json:"startDate"`
	EndDate     *time.Time           `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Workers     []primitive.ObjectID `bson:"workers" json:"workers"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasWorker reports whether the given worker is on the project roster.
func (p Project) HasWorker(id primitive.ObjectID) bool {
	for _, w := range p.Workers {
		if w == id {
			return true
		}
	}
	return false
}
