package evertext

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	DefaultURL       = "wss://evertext.sytes.net/socket.io/?EIO=4&transport=websocket"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	DefaultHandshakeTimeout = 20 * time.Second
	DefaultProcedureWait    = 200 * time.Second
	DefaultCommandSpacing   = 500 * time.Millisecond
	DefaultSettleWait       = 120 * time.Second

	sessionCookieName = "session"
)

type DialerConfig struct {
	URL              string
	UserAgent        string
	HandshakeTimeout time.Duration
	ProcedureWait    time.Duration
	CommandSpacing   time.Duration
	SettleWait       time.Duration
}

func (c DialerConfig) withDefaults() DialerConfig {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.ProcedureWait <= 0 {
		c.ProcedureWait = DefaultProcedureWait
	}
	if c.CommandSpacing <= 0 {
		c.CommandSpacing = DefaultCommandSpacing
	}
	if c.SettleWait <= 0 {
		c.SettleWait = DefaultSettleWait
	}

	return c
}

// Dialer opens sessions against the automation service.
type Dialer struct {
	cfg    DialerConfig
	ws     *websocket.Dialer
	clock  ports.Clock
	logger logrus.FieldLogger
}

var _ ports.SessionDialer = (*Dialer)(nil)

func NewDialer(cfg DialerConfig, clock ports.Clock, logger logrus.FieldLogger) *Dialer {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Dialer{
		cfg: cfg,
		ws: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		clock:  clock,
		logger: logger.WithField("component", "evertext"),
	}
}

// Dial connects, waits for the open frame and joins the default namespace.
// Failures are *domain.OutcomeError values of the connection class.
func (d *Dialer) Dial(ctx context.Context, credential string) (ports.Session, error) {
	header := http.Header{}
	header.Set("Cookie", (&http.Cookie{Name: sessionCookieName, Value: credential}).String())
	header.Set("User-Agent", d.cfg.UserAgent)

	conn, _, err := d.ws.DialContext(ctx, d.cfg.URL, header)
	if err != nil {
		return nil, domain.WrapOutcome(domain.OutcomeConnectionFailed, fmt.Errorf("dial: %w", err))
	}

	hs, err := d.handshake(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(frameNamespaceConnect)); err != nil {
		_ = conn.Close()
		return nil, domain.WrapOutcome(domain.OutcomeConnectionFailed, fmt.Errorf("join namespace: %w", err))
	}

	d.logger.WithFields(logrus.Fields{
		"sid":           hs.SID,
		"ping_interval": hs.PingInterval,
	}).Info("connected")

	return newSession(conn, hs, d.cfg, d.clock, d.logger), nil
}

func (d *Dialer) handshake(conn *websocket.Conn) (handshake, error) {
	if err := conn.SetReadDeadline(time.Now().Add(d.cfg.HandshakeTimeout)); err != nil {
		return handshake{}, domain.WrapOutcome(domain.OutcomeConnectionFailed, err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return handshake{}, domain.WrapOutcome(domain.OutcomeHandshakeTimeout, domain.ErrHandshakeFailed)
		}
		return handshake{}, domain.WrapOutcome(domain.OutcomeConnectionFailed, fmt.Errorf("%w: %w", domain.ErrHandshakeFailed, err))
	}

	hs, err := parseOpen(string(data))
	if err != nil {
		return handshake{}, domain.WrapOutcome(domain.OutcomeConnectionFailed, fmt.Errorf("%w: %w", domain.ErrHandshakeFailed, err))
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return handshake{}, domain.WrapOutcome(domain.OutcomeConnectionFailed, err)
	}

	return hs, nil
}

// Session owns one websocket. A reader goroutine feeds inbound frames to Run;
// every write happens on the goroutine calling Run.
type Session struct {
	conn      *websocket.Conn
	handshake handshake
	cfg       DialerConfig
	clock     ports.Clock
	logger    logrus.FieldLogger

	frames    chan string
	readErr   error
	done      chan struct{}
	closeOnce sync.Once
}

var _ ports.Session = (*Session)(nil)

func newSession(conn *websocket.Conn, hs handshake, cfg DialerConfig, clock ports.Clock, logger logrus.FieldLogger) *Session {
	s := &Session{
		conn:      conn,
		handshake: hs,
		cfg:       cfg,
		clock:     clock,
		logger:    logger.WithField("sid", hs.SID),
		frames:    make(chan string),
		done:      make(chan struct{}),
	}
	go s.readLoop()

	return s
}

func (s *Session) readLoop() {
	defer close(s.frames)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.readErr = err
			return
		}

		select {
		case s.frames <- string(data):
		case <-s.done:
			return
		}
	}
}

// PingInterval is the heartbeat interval advertised at handshake. Pings are
// server initiated; the session only answers them.
func (s *Session) PingInterval() time.Duration {
	return s.handshake.PingInterval
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})

	return err
}

// Run drives the login dialogue for account until the closing sequence is
// delivered or a terminal outcome is met. The procedure deadline is checked
// once per loop iteration, so it can fire late by up to one frame wait.
func (s *Session) Run(ctx context.Context, account domain.Account) error {
	machine := NewMachine(account)
	logger := s.logger.WithField("account", account.Name)
	logger.Info("session started")

	var waitStarted time.Time
	for {
		if machine.State() == StateWaitingProcedure && s.clock.Now().Sub(waitStarted) >= s.cfg.ProcedureWait {
			return s.rapidFire(ctx, machine, logger)
		}

		var frame string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case received, ok := <-s.frames:
			if !ok {
				return s.streamError()
			}
			frame = received
		}

		started, err := s.handleFrame(ctx, machine, frame, logger)
		if err != nil {
			return err
		}
		if started {
			waitStarted = s.clock.Now()
			logger.Infof("procedure running, waiting %s", s.cfg.ProcedureWait)
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, machine *Machine, frame string, logger logrus.FieldLogger) (bool, error) {
	switch {
	case frame == framePing:
		return false, s.write(framePong)
	case strings.HasPrefix(frame, frameNamespaceConnect):
		logger.Debug("namespace joined, restarting remote bot")
		return false, s.prime(ctx)
	case strings.HasPrefix(frame, frameEvent):
		return s.handleEvent(machine, frame, logger)
	default:
		return false, nil
	}
}

// prime stops any stale remote run before starting a fresh one.
func (s *Session) prime(ctx context.Context) error {
	stop, err := encodeEvent(eventStop, struct{}{})
	if err != nil {
		return domain.WrapOutcome(domain.OutcomeOther, err)
	}
	if err := s.write(stop); err != nil {
		return err
	}

	if err := s.clock.Sleep(ctx, s.cfg.CommandSpacing); err != nil {
		return err
	}

	start, err := encodeEvent(eventStart, startPayload{})
	if err != nil {
		return domain.WrapOutcome(domain.OutcomeOther, err)
	}

	return s.write(start)
}

func (s *Session) handleEvent(machine *Machine, frame string, logger logrus.FieldLogger) (bool, error) {
	text, ok, err := parseOutput(frame)
	if err != nil {
		return false, domain.WrapOutcome(domain.OutcomeOther, err)
	}
	if !ok {
		return false, nil
	}

	logger.WithField("state", machine.State()).Debugf("terminal: %s", truncate(text, 100))

	reaction, feedErr := machine.Feed(text)
	for _, command := range reaction.Commands {
		if err := s.send(command); err != nil {
			return false, err
		}
	}
	if feedErr != nil {
		logger.WithError(feedErr).WithField("output", truncate(machine.History(), 500)).Warn("session ended by server output")
		return false, feedErr
	}

	return reaction.WaitStarted, nil
}

func (s *Session) rapidFire(ctx context.Context, machine *Machine, logger logrus.FieldLogger) error {
	machine.BeginRapidFire()
	logger.Info("procedure wait complete, sending closing commands")

	for _, command := range RapidFireCommands {
		if err := s.send(command); err != nil {
			return err
		}
		if err := s.clock.Sleep(ctx, s.cfg.CommandSpacing); err != nil {
			return err
		}
	}

	if err := s.clock.Sleep(ctx, s.cfg.SettleWait); err != nil {
		return err
	}
	machine.Finish()
	logger.Info("session complete")

	return nil
}

func (s *Session) send(command string) error {
	frame, err := encodeInput(command)
	if err != nil {
		return domain.WrapOutcome(domain.OutcomeOther, err)
	}

	return s.write(frame)
}

func (s *Session) write(frame string) error {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return domain.WrapOutcome(domain.OutcomeConnectionFailed, fmt.Errorf("write frame: %w", err))
	}

	return nil
}

func (s *Session) streamError() error {
	if s.readErr == nil {
		return domain.NewOutcome(domain.OutcomeConnectionFailed, "socket closed")
	}

	return domain.WrapOutcome(domain.OutcomeConnectionFailed, s.readErr)
}
