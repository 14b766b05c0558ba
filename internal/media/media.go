// Package media abstracts the WebRTC SFU that carries room audio/video.
// The coordinator only books slots against it; SDP negotiation between the
// SFU and clients is not this server's concern.
package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrProviderUnavailable is returned when the SFU cannot service a request.
var ErrProviderUnavailable = errors.New("media provider unavailable")

// PublishConstraints describe the tracks a publisher wants to send.
type PublishConstraints struct {
	WithSound bool
	WithVideo bool
}

// Provider is the SFU collaborator. RequestPublish may block on a network
// round trip, so callers must not hold room locks across it.
type Provider interface {
	// CreateRoom provisions (or reuses) a media room and returns its handle.
	CreateRoom(ctx context.Context, roomID string, capacityHint int) (string, error)
	// RequestPublish negotiates a publisher in the media room and returns
	// its id, or ErrProviderUnavailable.
	RequestPublish(ctx context.Context, mediaRoom string, c PublishConstraints) (string, error)
	// RevokePublish tears down a publisher. Idempotent.
	RevokePublish(ctx context.Context, publisherID string) error
}

// Memory is an in-process Provider used in development and tests. FailNext
// makes the next RequestPublish fail, mimicking a flaky SFU.
type Memory struct {
	mu         sync.Mutex
	rooms      map[string]string
	publishers map[string]string // publisherID -> mediaRoom
	revoked    []string
	seq        atomic.Int64

	FailNext bool
}

func NewMemory() *Memory {
	return &Memory{
		rooms:      make(map[string]string),
		publishers: make(map[string]string),
	}
}

func (m *Memory) CreateRoom(_ context.Context, roomID string, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if handle, ok := m.rooms[roomID]; ok {
		return handle, nil
	}
	handle := fmt.Sprintf("media-%s", roomID)
	m.rooms[roomID] = handle
	return handle, nil
}

func (m *Memory) RequestPublish(_ context.Context, mediaRoom string, _ PublishConstraints) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return "", ErrProviderUnavailable
	}
	id := fmt.Sprintf("pub-%d", m.seq.Add(1))
	m.publishers[id] = mediaRoom
	return id, nil
}

func (m *Memory) RevokePublish(_ context.Context, publisherID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.publishers[publisherID]; !ok {
		return nil
	}
	delete(m.publishers, publisherID)
	m.revoked = append(m.revoked, publisherID)
	return nil
}

// Revoked returns the publisher ids torn down so far, in order.
func (m *Memory) Revoked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.revoked...)
}

// ActivePublishers returns the number of live publishers.
func (m *Memory) ActivePublishers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.publishers)
}
