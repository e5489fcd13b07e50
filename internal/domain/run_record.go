package domain

import "time"

type RunRecord struct {
	ID         string
	Account    string
	Outcome    OutcomeKind
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}
