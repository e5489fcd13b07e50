package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
)

const defaultLoopSpacing = time.Second

const (
	noticeStarting = "[INFO] Queue Manager: Starting automation sequence..."
	noticeBusy     = "[WARN] Queue Manager: Already in progress."
	noticeFinished = "[INFO] Queue Manager: Processing finished."
)

// Trigger describes who started a run.
type Trigger struct {
	// OwnerID limits a drain to the accounts registered by one user.
	OwnerID string
	// ChannelID receives progress reports. Empty for scheduled runs.
	ChannelID string
}

type QueueDeps struct {
	Store     ports.AccountStore
	Secrets   ports.SecretStore
	Dialer    ports.SessionDialer
	Recorder  ports.RunRecorder
	Announcer *Announcer
	Gate      *Gate
	Clock     ports.Clock
	Logger    logrus.FieldLogger
	// Spacing is the pause between two drain iterations.
	Spacing time.Duration
}

// Queue runs accounts against the remote service, one session at a time.
type Queue struct {
	store     ports.AccountStore
	secrets   ports.SecretStore
	dialer    ports.SessionDialer
	recorder  ports.RunRecorder
	announcer *Announcer
	gate      *Gate
	clock     ports.Clock
	logger    logrus.FieldLogger
	spacing   time.Duration
}

func NewQueue(deps QueueDeps) *Queue {
	q := &Queue{
		store:     deps.Store,
		secrets:   deps.Secrets,
		dialer:    deps.Dialer,
		recorder:  deps.Recorder,
		announcer: deps.Announcer,
		gate:      deps.Gate,
		clock:     deps.Clock,
		logger:    deps.Logger,
		spacing:   deps.Spacing,
	}
	if q.gate == nil {
		q.gate = NewGate()
	}
	if q.clock == nil {
		q.clock = ports.SystemClock{}
	}
	if q.logger == nil {
		q.logger = logrus.StandardLogger()
	}
	q.logger = q.logger.WithField("component", "queue")
	if q.announcer == nil {
		q.announcer = NewAnnouncer(deps.Store, nil, q.logger)
	}
	if q.spacing <= 0 {
		q.spacing = defaultLoopSpacing
	}

	return q
}

// Drain runs eligible accounts until none is left, the credential is missing,
// the credential is rejected, or the gate is revoked by Stop. It returns
// domain.ErrQueueBusy without doing anything when another run is active.
func (q *Queue) Drain(ctx context.Context, trigger Trigger) error {
	lease, ok := q.gate.TryAcquire()
	if !ok {
		q.announcer.Report(trigger.ChannelID, domain.Notification{Text: noticeBusy})
		return domain.ErrQueueBusy
	}
	defer func() {
		lease.Release()
		q.announcer.Report(trigger.ChannelID, domain.Notification{Text: noticeFinished})
	}()

	q.announcer.Report(trigger.ChannelID, domain.Notification{Text: noticeStarting})
	logger := q.logger.WithField("owner", trigger.OwnerID)
	logger.Info("drain started")

	for lease.Active() {
		if err := ctx.Err(); err != nil {
			return err
		}

		accounts, err := q.store.List(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}

		account, ok := nextCandidate(accounts, trigger.OwnerID)
		if !ok {
			logger.Info("drain complete, no eligible account left")
			return nil
		}

		credential, err := q.credential(ctx)
		if err != nil {
			logger.WithError(err).Warn("drain stopped without credential")
			return err
		}

		policy := q.attempt(ctx, account, credential, trigger)
		if err := ctx.Err(); err != nil {
			return err
		}
		if policy.Stop {
			logger.WithField("account", account.Name).Warn("drain stopped by outcome")
			return nil
		}

		if err := q.pause(ctx, lease, policy.Delay); err != nil {
			return err
		}
		if err := q.pause(ctx, lease, q.spacing); err != nil {
			return err
		}
	}

	logger.Info("drain stopped by admin")
	return nil
}

// RunSingle runs one session for the named account under the same gate as
// Drain, without retrying. Only a completed session changes the status.
func (q *Queue) RunSingle(ctx context.Context, name string, trigger Trigger) error {
	lease, ok := q.gate.TryAcquire()
	if !ok {
		q.announcer.Report(trigger.ChannelID, domain.Notification{Text: "[WARN] Already in progress."})
		return domain.ErrQueueBusy
	}
	defer lease.Release()

	account, err := q.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			q.announcer.Report(trigger.ChannelID, domain.Notification{Text: fmt.Sprintf("[ERROR] Account **%s** not found.", name)})
		}
		return fmt.Errorf("get account %q: %w", name, err)
	}

	credential, err := q.credential(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialMissing) {
			q.announcer.Report(trigger.ChannelID, domain.Notification{Text: "[ERROR] No cookies set."})
		}
		return err
	}

	mention := mentionFor(account)
	q.announcer.Report(trigger.ChannelID, domain.Notification{Text: fmt.Sprintf("[INFO] Force running **%s**...", account.Name)})

	startedAt := q.clock.Now()
	session, err := q.dialer.Dial(ctx, credential)
	if err != nil {
		q.record(ctx, account, domain.OutcomeConnectionFailed, err.Error(), startedAt)
		q.announcer.Report(trigger.ChannelID, domain.Notification{Text: fmt.Sprintf("[ERROR] Connection failed: %s", err), MentionUserID: mention})
		return err
	}

	runErr := q.runSession(ctx, session, account)
	kind, reason := domain.ClassifyOutcome(runErr)
	q.record(ctx, account, kind, reason, startedAt)

	if kind != domain.OutcomeSessionComplete {
		q.announcer.Report(trigger.ChannelID, domain.Notification{
			Text:          fmt.Sprintf("[ERROR] **%s** failed: %s", account.Name, reason),
			Priority:      policyFor(kind).Priority,
			MentionUserID: mention,
		})
		return runErr
	}

	if err := q.store.UpdateStatus(ctx, account.Name, domain.StatusDone); err != nil {
		return fmt.Errorf("mark %q done: %w", account.Name, err)
	}
	q.announcer.Report(trigger.ChannelID, domain.Notification{Text: fmt.Sprintf("[SUCCESS] **%s** finished.", account.Name), MentionUserID: mention})

	return nil
}

// Stop revokes the active run, if any. The run notices at its next loop
// check; an in-flight session finishes its current step.
func (q *Queue) Stop() bool {
	stopped := q.gate.Stop()
	if stopped {
		q.logger.Warn("active run stopped by admin")
	}

	return stopped
}

func (q *Queue) Busy() bool {
	return q.gate.Held()
}

func (q *Queue) attempt(ctx context.Context, account domain.Account, credential string, trigger Trigger) Policy {
	logger := q.logger.WithField("account", account.Name)
	startedAt := q.clock.Now()

	session, err := q.dialer.Dial(ctx, credential)
	if err != nil {
		logger.WithError(err).Warn("connect failed")
		q.record(ctx, account, domain.OutcomeConnectionFailed, err.Error(), startedAt)
		q.announce(ctx, account, dialFailurePolicy, err.Error(), trigger)
		return dialFailurePolicy
	}

	runErr := q.runSession(ctx, session, account)
	if ctx.Err() != nil {
		return Policy{Stop: true}
	}

	kind, reason := domain.ClassifyOutcome(runErr)
	policy := policyFor(kind)
	logger.WithFields(logrus.Fields{
		"outcome": kind,
		"delay":   policy.Delay,
	}).Info("session finished")

	if status := policy.statusFor(reason); status != "" {
		if err := q.store.UpdateStatus(ctx, account.Name, status); err != nil {
			logger.WithError(err).Error("write account status")
		}
	}

	q.record(ctx, account, kind, reason, startedAt)
	q.announce(ctx, account, policy, reason, trigger)

	return policy
}

func (q *Queue) runSession(ctx context.Context, session ports.Session, account domain.Account) error {
	defer func() {
		if err := session.Close(); err != nil {
			q.logger.WithError(err).Debug("close session")
		}
	}()

	return session.Run(ctx, account)
}

func (q *Queue) announce(ctx context.Context, account domain.Account, policy Policy, reason string, trigger Trigger) {
	mention := mentionFor(account)

	if text := render(policy.Report, account.Name, reason); text != "" {
		q.announcer.Report(trigger.ChannelID, domain.Notification{Text: text, Priority: policy.Priority, MentionUserID: mention})
	}
	if text := render(policy.Mirror, account.Name, reason); text != "" {
		q.announcer.Notify(ctx, domain.Notification{Text: text, Priority: policy.Priority, MentionUserID: mention}, trigger.ChannelID)
	}
}

func (q *Queue) record(ctx context.Context, account domain.Account, kind domain.OutcomeKind, message string, startedAt time.Time) {
	if q.recorder == nil {
		return
	}

	record := domain.RunRecord{
		Account:    account.Name,
		Outcome:    kind,
		Message:    message,
		StartedAt:  startedAt,
		FinishedAt: q.clock.Now(),
	}
	if err := q.recorder.Record(ctx, record); err != nil {
		q.logger.WithError(err).WithField("account", account.Name).Warn("record run")
	}
}

// credential resolves the automation credential through the secret store.
func (q *Queue) credential(ctx context.Context) (string, error) {
	settings, err := q.store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("read settings: %w", err)
	}
	if settings.CredentialRef == "" {
		return "", domain.ErrCredentialMissing
	}

	value, err := q.secrets.Get(ctx, settings.CredentialRef)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", domain.ErrCredentialMissing
		}
		return "", fmt.Errorf("read credential: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.ErrCredentialMissing
	}

	return value, nil
}

// pause sleeps for d. Revoking the lease cuts the pause short so a stopped
// drain exits without serving its backoff.
func (q *Queue) pause(ctx context.Context, lease *Lease, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	pauseCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-lease.Done():
			cancel()
		case <-pauseCtx.Done():
		}
	}()

	_ = q.clock.Sleep(pauseCtx, d)
	return ctx.Err()
}

// candidates orders the eligible accounts: anything not done, fresh before
// retrying, insertion order kept within each group.
func candidates(accounts []domain.Account, ownerID string) []domain.Account {
	fresh := make([]domain.Account, 0, len(accounts))
	var retrying []domain.Account

	for _, account := range accounts {
		if domain.IsDone(account.Status) {
			continue
		}
		if ownerID != "" && !account.OwnedBy(ownerID) {
			continue
		}
		if domain.IsRetrying(account.Status) {
			retrying = append(retrying, account)
			continue
		}
		fresh = append(fresh, account)
	}

	return append(fresh, retrying...)
}

func nextCandidate(accounts []domain.Account, ownerID string) (domain.Account, bool) {
	ordered := candidates(accounts, ownerID)
	if len(ordered) == 0 {
		return domain.Account{}, false
	}

	return ordered[0], true
}

func mentionFor(account domain.Account) string {
	if account.PingEnabled {
		return account.OwnerID
	}

	return ""
}
