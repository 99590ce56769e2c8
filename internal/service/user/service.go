// Package user covers registration, login and worker roster management.
package user

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/auth"
	"github.com/sideledger/sideledger/internal/domain/apperr"
	"github.com/sideledger/sideledger/internal/domain/models"
)

// Store is the principal persistence surface.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateWorker(ctx context.Context, id primitive.ObjectID, fields models.WorkerUpdate) (*models.User, error)
	SetWorkerStatus(ctx context.Context, id primitive.ObjectID, status models.WorkerStatus) error
}

// Scoper lists the workers visible to a principal.
type Scoper interface {
	VisibleWorkers(ctx context.Context, actor models.Principal) ([]models.User, error)
}

// TokenIssuer signs an authentication token for a principal.
type TokenIssuer func(user *models.User) (string, error)

// RegisterInput is the generic account registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterWorkerInput is the worker self-registration payload. All employment
// fields are required.
type RegisterWorkerInput struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Phone      string  `json:"phone"`
	WorkerRole string  `json:"workerRole"`
	Specialty  string  `json:"specialty"`
	DailyRate  float64 `json:"dailyRate"`
}

// AuthResult pairs a signed token with the authenticated principal.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service implements account and roster operations.
type Service struct {
	store  Store
	scoper Scoper
	issue  TokenIssuer
	logger *zap.Logger
}

// NewService wires a user service instance.
func NewService(store Store, scoper Scoper, issue TokenIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, scoper: scoper, issue: issue, logger: logger}
}

// Register creates a worker account with just the identity fields. Employment
// details can be filled in later by an admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         models.RoleWorker,
		Status:       models.StatusActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issueFor(user)
}

// RegisterWorker is the self-service signup with the full employment profile.
func (s *Service) RegisterWorker(ctx context.Context, in RegisterWorkerInput) (*AuthResult, error) {
	switch {
	case in.Name == "", in.Email == "", in.Password == "",
		in.Phone == "", in.WorkerRole == "", in.Specialty == "":
		return nil, apperr.Validation("all fields are required")
	case in.DailyRate <= 0:
		return nil, apperr.Validation("daily rate must be positive")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         models.RoleWorker,
		Phone:        in.Phone,
		WorkerRole:   in.WorkerRole,
		Specialty:    in.Specialty,
		DailyRate:    in.DailyRate,
		Status:       models.StatusActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("worker registered", zap.String("email", user.Email))
	return s.issueFor(user)
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("invalid credentials")
		}
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, apperr.Validation("invalid credentials")
	}
	return s.issueFor(user)
}

func (s *Service) issueFor(user *models.User) (*AuthResult, error) {
	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, actor models.Principal) (*models.User, error) {
	return s.store.FindUserByID(ctx, actor.ID)
}

// RequireAdmin re-fetches the actor and verifies the admin role against the
// database. The token role claim is never trusted for privileged operations.
func (s *Service) RequireAdmin(ctx context.Context, actor models.Principal) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, actor.ID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Authorization("access denied")
		}
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, apperr.Authorization("access denied: admin only")
	}
	return user, nil
}

// ListWorkers returns the workers visible to the actor.
func (s *Service) ListWorkers(ctx context.Context, actor models.Principal) ([]models.User, error) {
	return s.scoper.VisibleWorkers(ctx, actor)
}

// GetWorker returns one worker profile. Admin only.
func (s *Service) GetWorker(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleWorker {
		return nil, apperr.NotFound("worker not found")
	}
	return user, nil
}

// UpdateWorker applies admin edits to a worker's employment profile.
func (s *Service) UpdateWorker(ctx context.Context, id primitive.ObjectID, fields models.WorkerUpdate) (*models.User, error) {
	if fields.DailyRate < 0 {
		return nil, apperr.Validation("daily rate must be positive")
	}
	return s.store.UpdateWorker(ctx, id, fields)
}

// DeactivateWorker is the soft delete: the worker is flagged inactive and
// drops out of every active listing, but attendance and project history keep
// their references.
func (s *Service) DeactivateWorker(ctx context.Context, id primitive.ObjectID) error {
	return s.store.SetWorkerStatus(ctx, id, models.StatusInactive)
}
