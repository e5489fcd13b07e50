package evertext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frame prefixes of the Engine.IO/Socket.IO subset the service speaks.
const (
	frameOpen             = "0"
	framePing             = "2"
	framePong             = "3"
	frameNamespaceConnect = "40"
	frameEvent            = "42"
)

const (
	eventOutput = "output"
	eventInput  = "input"
	eventStart  = "start"
	eventStop   = "stop"

	defaultPingInterval = 25 * time.Second
)

type handshake struct {
	SID          string
	PingInterval time.Duration
}

type openPayload struct {
	SID          string `json:"sid"`
	PingInterval *int64 `json:"pingInterval"`
}

type outputPayload struct {
	Data *string `json:"data"`
}

type inputPayload struct {
	Input string `json:"input"`
}

type startPayload struct {
	Args string `json:"args"`
}

func parseOpen(frame string) (handshake, error) {
	if !strings.HasPrefix(frame, frameOpen) {
		return handshake{}, fmt.Errorf("unexpected first frame %q", truncate(frame, 32))
	}

	var payload openPayload
	if err := json.Unmarshal([]byte(frame[len(frameOpen):]), &payload); err != nil {
		return handshake{}, fmt.Errorf("decode open frame: %w", err)
	}
	if payload.SID == "" {
		return handshake{}, errors.New("open frame has no sid")
	}

	result := handshake{SID: payload.SID, PingInterval: defaultPingInterval}
	if payload.PingInterval != nil {
		result.PingInterval = time.Duration(*payload.PingInterval) * time.Millisecond
	}

	return result, nil
}

func encodeEvent(name string, payload any) (string, error) {
	data, err := json.Marshal([]any{name, payload})
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", name, err)
	}

	return frameEvent + string(data), nil
}

func encodeInput(command string) (string, error) {
	return encodeEvent(eventInput, inputPayload{Input: command})
}

// parseOutput extracts the terminal text of an event frame. ok is false for
// any event other than output, or an output event without a data string.
func parseOutput(frame string) (text string, ok bool, err error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal([]byte(frame[len(frameEvent):]), &envelope); err != nil {
		return "", false, fmt.Errorf("decode event frame: %w", err)
	}
	if len(envelope) < 2 {
		return "", false, nil
	}

	var name string
	if err := json.Unmarshal(envelope[0], &name); err != nil || name != eventOutput {
		return "", false, nil
	}

	var payload outputPayload
	if err := json.Unmarshal(envelope[1], &payload); err != nil || payload.Data == nil {
		return "", false, nil
	}

	return *payload.Data, true, nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}

	return string(runes[:limit]) + "..."
}
