package ports

import (
	"context"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

// AccountStore owns the canonical account and settings records. A successful
// mutation is durable before it returns, and is visible to the next read.
type AccountStore interface {
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, name string) (domain.Account, error)
	Upsert(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, name string) (bool, error)
	UpdateStatus(ctx context.Context, name string, status string) error
	ResetAllStatuses(ctx context.Context) error
	SetPingForOwner(ctx context.Context, ownerID string) (bool, error)

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, mutate func(*domain.Settings)) error
}
