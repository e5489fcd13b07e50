package ports

import (
	"context"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

type RunRecorder interface {
	Record(ctx context.Context, record domain.RunRecord) error
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
