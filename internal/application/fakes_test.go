package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type statusWrite struct {
	Name   string
	Status string
}

type memoryStore struct {
	mu       sync.Mutex
	accounts []domain.Account
	settings domain.Settings
	writes   []statusWrite
}

func newMemoryStore(accounts ...domain.Account) *memoryStore {
	return &memoryStore{
		accounts: accounts,
		settings: domain.Settings{CredentialRef: "evertext/session"},
	}
}

func (s *memoryStore) List(context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Account(nil), s.accounts...), nil
}

func (s *memoryStore) Get(_ context.Context, name string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Name == name {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (s *memoryStore) Upsert(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].Name == account.Name {
			s.accounts[i] = account
			return nil
		}
	}
	s.accounts = append(s.accounts, account)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].Name == name {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, name string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].Name == name {
			s.accounts[i].Status = status
			s.writes = append(s.writes, statusWrite{Name: name, Status: status})
		}
	}
	return nil
}

func (s *memoryStore) ResetAllStatuses(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		s.accounts[i].Status = domain.StatusPending
	}
	return nil
}

func (s *memoryStore) SetPingForOwner(_ context.Context, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enabled, first := false, true
	for i := range s.accounts {
		if !s.accounts[i].OwnedBy(ownerID) {
			continue
		}
		if first {
			enabled = !s.accounts[i].PingEnabled
			first = false
		}
		s.accounts[i].PingEnabled = enabled
	}
	if first {
		return false, domain.ErrNoOwnedAccounts
	}
	return enabled, nil
}

func (s *memoryStore) GetSettings(context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *memoryStore) UpdateSettings(_ context.Context, mutate func(*domain.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.settings)
	return nil
}

func (s *memoryStore) statusOf(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Name == name {
			return account.Status
		}
	}
	return ""
}

func (s *memoryStore) statusWrites() []statusWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]statusWrite(nil), s.writes...)
}

type memorySecrets struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySecrets(values map[string]string) *memorySecrets {
	if values == nil {
		values = map[string]string{}
	}
	return &memorySecrets{values: values}
}

func (m *memorySecrets) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (m *memorySecrets) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memorySecrets) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// scriptedDialer hands out sessions whose Run result comes from script. The
// attempt argument counts earlier runs of the same account.
type scriptedDialer struct {
	mu       sync.Mutex
	runs     []string
	dials    int
	dialErr  func(dial int) error
	script   func(account domain.Account, attempt int) error
	closures int
}

func (d *scriptedDialer) Dial(context.Context, string) (ports.Session, error) {
	d.mu.Lock()
	d.dials++
	dial := d.dials
	d.mu.Unlock()

	if d.dialErr != nil {
		if err := d.dialErr(dial); err != nil {
			return nil, err
		}
	}
	return &scriptedSession{dialer: d}, nil
}

func (d *scriptedDialer) ranAccounts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.runs...)
}

type scriptedSession struct {
	dialer *scriptedDialer
}

func (s *scriptedSession) Run(_ context.Context, account domain.Account) error {
	s.dialer.mu.Lock()
	attempt := 0
	for _, name := range s.dialer.runs {
		if name == account.Name {
			attempt++
		}
	}
	s.dialer.runs = append(s.dialer.runs, account.Name)
	script := s.dialer.script
	s.dialer.mu.Unlock()

	if script == nil {
		return nil
	}
	return script(account, attempt)
}

func (s *scriptedSession) Close() error {
	s.dialer.mu.Lock()
	defer s.dialer.mu.Unlock()
	s.dialer.closures++
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) to(channelID string) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Notification
	for _, n := range r.sent {
		if n.ChannelID == channelID {
			result = append(result, n)
		}
	}
	return result
}

func (r *recordingNotifier) textsTo(channelID string) []string {
	var texts []string
	for _, n := range r.to(channelID) {
		texts = append(texts, n.Text)
	}
	return texts
}

func (r *recordingNotifier) count(channelID string, substring string) int {
	total := 0
	for _, text := range r.textsTo(channelID) {
		if strings.Contains(text, substring) {
			total++
		}
	}
	return total
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []domain.RunRecord
}

func (m *memoryRecorder) Record(_ context.Context, record domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memoryRecorder) Recent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	return append([]domain.RunRecord(nil), m.records[len(m.records)-limit:]...), nil
}

// sleepClock advances instantly on Sleep and remembers every duration.
type sleepClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newSleepClock(now time.Time) *sleepClock {
	return &sleepClock{now: now}
}

func (c *sleepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *sleepClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return ctx.Err()
}

func (c *sleepClock) slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type queueFixture struct {
	store    *memoryStore
	secrets  *memorySecrets
	dialer   *scriptedDialer
	notifier *recordingNotifier
	recorder *memoryRecorder
	clock    *sleepClock
	queue    *Queue
}

func newQueueFixture(accounts ...domain.Account) *queueFixture {
	f := &queueFixture{
		store:    newMemoryStore(accounts...),
		secrets:  newMemorySecrets(map[string]string{"evertext/session": "cookie"}),
		dialer:   &scriptedDialer{},
		notifier: &recordingNotifier{},
		recorder: &memoryRecorder{},
		clock:    newSleepClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)),
	}

	logger := nullLogger()
	f.queue = NewQueue(QueueDeps{
		Store:     f.store,
		Secrets:   f.secrets,
		Dialer:    f.dialer,
		Recorder:  f.recorder,
		Announcer: NewAnnouncer(f.store, f.notifier, logger),
		Clock:     f.clock,
		Logger:    logger,
	})

	return f
}
