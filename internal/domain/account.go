package domain

import (
	"strings"
	"time"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"

	errorStatusPrefix = "error"
)

type Account struct {
	Name         string
	RestoreCode  string
	TargetServer string
	OwnerID      string
	OwnerName    string
	PingEnabled  bool
	Status       string
	LastRunAt    *time.Time
}

// ErrorStatus formats a failure reason the way it is persisted on an account.
func ErrorStatus(reason string) string {
	return errorStatusPrefix + ": " + reason
}

func IsDone(status string) bool {
	return status == StatusDone
}

// IsRetrying reports whether the status belongs to the deprioritized error class.
func IsRetrying(status string) bool {
	return strings.HasPrefix(status, errorStatusPrefix)
}

// IsTerminalStatus reports whether writing status stamps LastRunAt.
func IsTerminalStatus(status string) bool {
	return status == StatusDone || strings.HasPrefix(status, errorStatusPrefix+":")
}

func (a Account) OwnedBy(ownerID string) bool {
	return a.OwnerID != "" && a.OwnerID == ownerID
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrAccountNameRequired
	}
	if strings.TrimSpace(a.RestoreCode) == "" {
		return ErrRestoreCodeRequired
	}

	return nil
}
