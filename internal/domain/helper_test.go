package domain

import (
	"encoding/json"
	"errors"
	"sync"
)

var errSendFailed = errors.New("send failed")

type fakeMember struct {
	username string
	fail     bool

	mu       sync.Mutex
	received []Message
}

func newFakeMember(username string) *fakeMember {
	return &fakeMember{username: username}
}

func (m *fakeMember) Username() string {
	return m.username
}

func (m *fakeMember) Send(data []byte) error {
	if m.fail {
		return errSendFailed
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	m.mu.Lock()
	m.received = append(m.received, msg)
	m.mu.Unlock()
	return nil
}

func (m *fakeMember) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Message(nil), m.received...)
}
