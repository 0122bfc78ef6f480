package repositories

import (
	"context"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// SearchSnapshotRepository persists de-normalized search snapshots.
type SearchSnapshotRepository interface {
	Create(ctx context.Context, snapshot *entities.SearchSnapshot) error
}
