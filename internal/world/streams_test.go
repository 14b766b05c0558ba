package world

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"poipoi/internal/catalog"
	"poipoi/internal/config"
)

func TestSlotLifecycle(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})

	idx, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithVideo: true})
	if err != nil {
		t.Fatalf("request slot: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected first slot, got %d", idx)
	}

	// claimed immediately, ready only once the SFU confirms
	s := slotAt(room, 0)
	if s.phase == slotInactive || s.userID != "A" || !s.withVideo || s.withSound {
		t.Fatalf("unexpected claimed slot state: %+v", s)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotReady })

	s = slotAt(room, 0)
	if s.publisherID == "" {
		t.Fatal("ready slot has no publisher handle")
	}

	// disconnect resets the slot and tears the publisher down
	room.RemovePlayer("A")
	if got := slotAt(room, 0); got != (streamSlot{}) {
		t.Fatalf("slot not at rest state after disconnect: %+v", got)
	}
	waitUntil(t, time.Second, func() bool { return len(w.media.Revoked()) == 1 })
}

func TestInactiveSlotSerializesCanonically(t *testing.T) {
	raw, err := json.Marshal(StreamSlotDto{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"isActive":false,"isReady":false,"withSound":false,"withVideo":false,"userId":null}`
	if string(raw) != want {
		t.Fatalf("inactive slot DTO mismatch:\n got %s\nwant %s", raw, want)
	}

	// marshal enforces the rest state even for a half-filled value
	raw, err = json.Marshal(StreamSlotDto{IsReady: true, WithSound: true, UserID: "A"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != want {
		t.Fatalf("inactive variant leaked fields: %s", raw)
	}
}

func TestProviderFailureRollsBack(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})
	w.media.FailNext = true

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithSound: true}); err != nil {
		t.Fatalf("request slot: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotInactive })

	// the owner is told the publisher could not be provisioned
	waitUntil(t, time.Second, func() bool {
		f, ok := w.events.lastStreamFailure()
		return ok && f.slot == 0 && f.user == "A"
	})

	// the slot is claimable again after the rollback
	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithSound: true}); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotReady })
}

func TestNoFreeSlot(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})
	w.join(t, "B", catalog.Coordinates{X: 5, Y: 6})
	w.join(t, "C", catalog.Coordinates{X: 5, Y: 7})

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{}); err != nil {
		t.Fatalf("slot A: %v", err)
	}
	if _, err := room.RequestSlot(context.Background(), "B", StreamRequest{}); err != nil {
		t.Fatalf("slot B: %v", err)
	}
	if _, err := room.RequestSlot(context.Background(), "C", StreamRequest{}); err != ErrNoFreeSlot {
		t.Fatalf("expected ErrNoFreeSlot, got %v", err)
	}
}

func TestZeroCapacityRoomNeverAllocates(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	if _, err := w.reg.Join("for", "den", "A", "alice", "giko"); err != nil {
		t.Fatalf("join: %v", err)
	}
	den, _ := w.reg.Room("for", "den")
	if _, err := den.RequestSlot(context.Background(), "A", StreamRequest{}); err != ErrNoFreeSlot {
		t.Fatalf("expected ErrNoFreeSlot in zero-capacity room, got %v", err)
	}
}

func TestSecondSlotRejectedByDefault(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{}); err != nil {
		t.Fatalf("first slot: %v", err)
	}
	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{}); err != ErrSlotConflict {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestSlotSwapPolicy(t *testing.T) {
	pol := config.Policies{TurnOnBlocked: true, AllowSlotSwap: true}
	w := newTestWorld(t, pol, time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithSound: true}); err != nil {
		t.Fatalf("first slot: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotReady })

	idx, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithVideo: true})
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected swap to reuse slot 0, got %d", idx)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotReady })

	s := slotAt(room, 0)
	if !s.withVideo || s.withSound {
		t.Fatalf("swapped slot kept old constraints: %+v", s)
	}
	// exactly one active slot per user at all times
	active := 0
	for i := 0; i < room.Def.StreamSlotCount; i++ {
		if slotAt(room, i).phase != slotInactive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active slot, got %d", active)
	}
	waitUntil(t, time.Second, func() bool { return len(w.media.Revoked()) == 1 })
}

func TestReleaseSlot(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})
	w.join(t, "B", catalog.Coordinates{X: 6, Y: 5})

	idx, err := room.RequestSlot(context.Background(), "A", StreamRequest{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, idx).phase == slotReady })

	if err := room.ReleaseSlot(idx, "B"); err != ErrSlotConflict {
		t.Fatalf("expected ErrSlotConflict for non-owner, got %v", err)
	}
	if err := room.ReleaseSlot(idx, "A"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := room.ReleaseSlot(idx, "A"); err != nil {
		t.Fatalf("release not idempotent: %v", err)
	}
	if got := slotAt(room, idx); got != (streamSlot{}) {
		t.Fatalf("slot not reset: %+v", got)
	}
}

func TestPrivateStreamRedaction(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})
	w.join(t, "B", catalog.Coordinates{X: 6, Y: 5})

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{WithVideo: true, IsPrivate: true}); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return slotAt(room, 0).phase == slotReady })

	owner := room.Snapshot("A")
	if !owner.Streams[0].IsActive || owner.Streams[0].UserID != "A" {
		t.Fatalf("owner should see own private stream: %+v", owner.Streams[0])
	}
	other := room.Snapshot("B")
	if other.Streams[0].IsActive {
		t.Fatalf("private stream visible to non-owner: %+v", other.Streams[0])
	}
}

func TestSlotRaceWithDisconnect(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "A", catalog.Coordinates{X: 5, Y: 5})

	if _, err := room.RequestSlot(context.Background(), "A", StreamRequest{}); err != nil {
		t.Fatalf("request: %v", err)
	}
	// disconnect while provisioning may still be in flight: the slot must
	// end inactive and any publisher that slipped through must be revoked
	room.RemovePlayer("A")
	waitUntil(t, time.Second, func() bool {
		return slotAt(room, 0) == (streamSlot{}) && w.media.ActivePublishers() == 0
	})
}
