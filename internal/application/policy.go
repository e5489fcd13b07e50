package application

import (
	"strings"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

// StatusWrite says what a drain persists on the account after an outcome.
type StatusWrite int

const (
	KeepStatus StatusWrite = iota
	MarkDone
	MarkZigza
	MarkFailed
)

// ZigzaStatus is persisted after a Zigza error so the account drops behind
// fresh ones.
var ZigzaStatus = domain.ErrorStatus("Zigza Retrying")

// Policy is one row of the outcome table. Report goes to the channel that
// started the run and Mirror to the log channel. Both are templates where
// {account} and {reason} are substituted.
type Policy struct {
	Status   StatusWrite
	Delay    time.Duration
	Stop     bool
	Priority domain.Priority
	Report   string
	Mirror   string
}

const connectionRetryDelay = 5 * time.Second

var connectionPolicy = Policy{
	Delay:  connectionRetryDelay,
	Report: "[WARN] Connection issue on **{account}** (Reason: {reason}). Retrying in 5s...",
}

// OutcomePolicies maps every classified outcome to what a drain does next.
var OutcomePolicies = map[domain.OutcomeKind]Policy{
	domain.OutcomeSessionComplete: {
		Status: MarkDone,
		Report: "[SUCCESS] **{account}** completed.",
		Mirror: "[SUCCESS] Automation: **{account}** completed successfully.",
	},
	domain.OutcomeInvalidCommandRestart: {
		Delay:  5 * time.Second,
		Report: "[WARN] Invalid Command on **{account}**. Restarting session immediately.",
	},
	domain.OutcomeZigzaDetected: {
		Status: MarkZigza,
		Delay:  10 * time.Minute,
		Report: "[WARN] Zigza error on **{account}**. Waiting 10 mins before retry.",
		Mirror: "[WARN] Automation: Zigza detected on **{account}**. Retrying in 10m.",
	},
	domain.OutcomeServerFull: {
		Delay:  5 * time.Minute,
		Report: "[WARN] Server Full. Retrying **{account}** in 5 mins.",
		Mirror: "[WARN] Automation: Server full. Retrying **{account}** in 5m.",
	},
	domain.OutcomeLoginRequired: {
		Stop:     true,
		Priority: domain.PriorityHigh,
		Report:   "⚠️ **CRITICAL: Session cookie expired!** Stopping queue.",
		Mirror:   "⚠️ **[CRITICAL] Automation: Session cookie expired!** Stopping queue.",
	},
	domain.OutcomeConnectionFailed: connectionPolicy,
	domain.OutcomeIdleTimeout:      connectionPolicy,
	domain.OutcomeServerDisconnect: connectionPolicy,
	domain.OutcomeHandshakeTimeout: connectionPolicy,
	domain.OutcomeOther: {
		Status: MarkFailed,
		Report: "[ERROR] **{account}** failed: {reason}",
		Mirror: "[ERROR] Automation: **{account}** failed. Reason: {reason}",
	},
}

// dialFailurePolicy applies when no session could be opened at all.
var dialFailurePolicy = Policy{
	Delay:  connectionRetryDelay,
	Report: "[ERROR] Connection failed for **{account}**: {reason}",
}

func policyFor(kind domain.OutcomeKind) Policy {
	if policy, ok := OutcomePolicies[kind]; ok {
		return policy
	}

	return OutcomePolicies[domain.OutcomeOther]
}

// statusFor returns the status to persist, or "" to leave it untouched.
func (p Policy) statusFor(reason string) string {
	switch p.Status {
	case MarkDone:
		return domain.StatusDone
	case MarkZigza:
		return ZigzaStatus
	case MarkFailed:
		return domain.ErrorStatus(reason)
	default:
		return ""
	}
}

func render(template string, account string, reason string) string {
	if template == "" {
		return ""
	}

	return strings.NewReplacer("{account}", account, "{reason}", reason).Replace(template)
}
