package ports

import (
	"context"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

type SessionDialer interface {
	Dial(ctx context.Context, credential string) (Session, error)
}

// Session is one live connection to the remote service. It is owned by the
// caller that dialed it and is never shared.
type Session interface {
	// Run blocks until the session reaches a terminal outcome. A nil error
	// means the closing command sequence was delivered.
	Run(ctx context.Context, account domain.Account) error
	Close() error
}
