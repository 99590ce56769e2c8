package mongodb

import (
	"context"
	"fmt"

	"github.com/sideledger/sideledger/internal/domain/models"
)

// SaveDashboardSnapshot persists a nightly aggregate document.
func (r *Repository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	if _, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert dashboard snapshot: %w", err)
	}
	return nil
}
