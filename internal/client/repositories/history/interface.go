package history

import (
	"context"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
)

// Repository stores history snapshots keyed by owner UPI id.
type Repository interface {
	// Replace drops the owner's cached rows and stores txs in their place.
	Replace(ctx context.Context, ownerUPIID string, txs []models.Transaction) error

	// List returns up to limit cached rows, newest first. limit <= 0 means all.
	List(ctx context.Context, ownerUPIID string, limit int) ([]models.Transaction, error)

	// Clear removes every cached row for every owner.
	Clear(ctx context.Context) error
}
