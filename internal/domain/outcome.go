package domain

import (
	"errors"
	"strings"
)

type OutcomeKind string

const (
	OutcomeSessionComplete       OutcomeKind = "SESSION_COMPLETE"
	OutcomeInvalidCommandRestart OutcomeKind = "INVALID_COMMAND_RESTART"
	OutcomeZigzaDetected         OutcomeKind = "ZIGZA_DETECTED"
	OutcomeServerFull            OutcomeKind = "SERVER_FULL"
	OutcomeLoginRequired         OutcomeKind = "LOGIN_REQUIRED"
	OutcomeConnectionFailed      OutcomeKind = "CONNECTION_FAILED"
	OutcomeIdleTimeout           OutcomeKind = "IDLE_TIMEOUT"
	OutcomeServerDisconnect      OutcomeKind = "SERVER_DISCONNECT"
	OutcomeHandshakeTimeout      OutcomeKind = "HANDSHAKE_TIMEOUT"
	OutcomeOther                 OutcomeKind = "OTHER"
)

// classifiedKinds is scanned in order when an error arrives without a typed outcome.
var classifiedKinds = []OutcomeKind{
	OutcomeSessionComplete,
	OutcomeInvalidCommandRestart,
	OutcomeZigzaDetected,
	OutcomeServerFull,
	OutcomeLoginRequired,
	OutcomeIdleTimeout,
	OutcomeConnectionFailed,
	OutcomeServerDisconnect,
	OutcomeHandshakeTimeout,
}

// OutcomeError is the terminal, classified result of a failed session run.
type OutcomeError struct {
	Kind    OutcomeKind
	Message string
	Err     error
}

func NewOutcome(kind OutcomeKind, message string) *OutcomeError {
	return &OutcomeError{Kind: kind, Message: message}
}

func WrapOutcome(kind OutcomeKind, err error) *OutcomeError {
	return &OutcomeError{Kind: kind, Err: err}
}

func (e *OutcomeError) Error() string {
	if detail := e.detail(); detail != "" {
		return string(e.Kind) + ": " + detail
	}

	return string(e.Kind)
}

func (e *OutcomeError) detail() string {
	parts := make([]string, 0, 2)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *OutcomeError) Unwrap() error {
	return e.Err
}

// ClassifyOutcome maps a session result onto the closed outcome set. A nil
// error is a completed session. The returned message is what an unclassified
// failure should be persisted with.
func ClassifyOutcome(err error) (OutcomeKind, string) {
	if err == nil {
		return OutcomeSessionComplete, ""
	}

	var outcome *OutcomeError
	if errors.As(err, &outcome) {
		if outcome.Kind == OutcomeOther {
			return OutcomeOther, outcome.detail()
		}
		return outcome.Kind, err.Error()
	}

	message := err.Error()
	for _, kind := range classifiedKinds {
		if strings.Contains(message, string(kind)) {
			return kind, message
		}
	}

	return OutcomeOther, message
}
