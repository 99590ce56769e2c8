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

// CreateUser inserts a new principal. Duplicate emails surface as a conflict.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := r.collection(usersCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByEmail looks a principal up by email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindUserByID looks a principal up by id.
func (r *Repository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ListActiveWorkers returns every active worker principal, sorted by name.
func (r *Repository) ListActiveWorkers(ctx context.Context) ([]models.User, error) {
	return r.listWorkers(ctx, bson.M{"role": models.RoleWorker, "status": models.StatusActive})
}

// ListActiveWorkersByIDs returns the active workers among the given ids,
// sorted by name.
func (r *Repository) ListActiveWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.listWorkers(ctx, bson.M{
		"_id":    bson.M{"$in": ids},
		"role":   models.RoleWorker,
		"status": models.StatusActive,
	})
}

// ListWorkers returns every worker principal regardless of status.
func (r *Repository) ListWorkers(ctx context.Context) ([]models.User, error) {
	return r.listWorkers(ctx, bson.M{"role": models.RoleWorker})
}

// ListWorkersByIDs returns the worker principals among the given ids,
// regardless of status. Used to validate project rosters.
func (r *Repository) ListWorkersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.listWorkers(ctx, bson.M{"_id": bson.M{"$in": ids}, "role": models.RoleWorker})
}

func (r *Repository) listWorkers(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.collection(usersCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer cursor.Close(ctx)

	workers := []models.User{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	return workers, nil
}

// UpdateWorker applies the admin-editable employment fields and returns the
// updated principal.
func (r *Repository) UpdateWorker(ctx context.Context, id primitive.ObjectID, fields models.WorkerUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if fields.Name != "" {
		set["name"] = fields.Name
	}
	if fields.Phone != "" {
		set["phone"] = fields.Phone
	}
	if fields.WorkerRole != "" {
		set["workerRole"] = fields.WorkerRole
	}
	if fields.Specialty != "" {
		set["specialty"] = fields.Specialty
	}
	if fields.DailyRate > 0 {
		set["dailyRate"] = fields.DailyRate
	}

	var user models.User
	err := r.collection(usersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "role": models.RoleWorker},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("worker not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update worker: %w", err)
	}
	return &user, nil
}

// SetWorkerStatus flips the soft-delete lifecycle tag.
func (r *Repository) SetWorkerStatus(ctx context.Context, id primitive.ObjectID, status models.WorkerStatus) error {
	res, err := r.collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleWorker},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set worker status: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("worker not found")
	}
	return nil
}
