package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// CreateProject inserts a new project.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Workers == nil {
		project.Workers = []primitive.ObjectID{}
	}

	if _, err := r.collection(projectsCollection).InsertOne(ctx, project); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// ListProjects returns all projects, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]models.Project, error) {
	return r.listProjects(ctx, bson.M{})
}

// ListProjectsByWorker returns the projects whose roster contains the worker.
func (r *Repository) ListProjectsByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Project, error) {
	return r.listProjects(ctx, bson.M{"workers": workerID})
}

func (r *Repository) listProjects(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := r.collection(projectsCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

// FindProjectByID looks a project up by id.
func (r *Repository) FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection(projectsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &project, nil
}

// UpdateProject replaces the mutable project fields and returns the updated
// document.
func (r *Repository) UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.UpdatedAt = time.Now().UTC()

	var updated models.Project
	err := r.collection(projectsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": project.ID},
		bson.M{"$set": bson.M{
			"name":        project.Name,
			"client":      project.Client,
			"location":    project.Location,
			"budget":      project.Budget,
			"startDate":   project.StartDate,
			"endDate":     project.EndDate,
			"status":      project.Status,
			"description": project.Description,
			"workers":     project.Workers,
			"updatedAt":   project.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &updated, nil
}

// DeleteProject removes a project.
func (r *Repository) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(projectsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}
