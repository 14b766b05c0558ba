package world

import (
	"context"

	"poipoi/internal/logger"
	"poipoi/internal/media"
)

// slotPhase is the explicit variant tag of a stream slot. A slot is only
// ever inactive, pending (claimed, waiting for the SFU publisher) or ready.
type slotPhase int

const (
	slotInactive slotPhase = iota
	slotPending
	slotReady
)

// streamSlot is one audio/video publishing channel. Invariant: when phase
// is slotInactive every other field is at its zero value, so a partially
// active slot is never observable.
type streamSlot struct {
	phase       slotPhase
	userID      string
	withSound   bool
	withVideo   bool
	isPrivate   bool
	publisherID string
}

func (s *streamSlot) reset() {
	*s = streamSlot{}
}

// StreamRequest are the flags a user asks a slot with.
type StreamRequest struct {
	WithSound bool
	WithVideo bool
	IsPrivate bool
}

// RequestSlot claims the first inactive slot for the user and kicks off
// publisher provisioning against the SFU. The slot is returned in the
// pending state; it becomes ready asynchronously once the SFU confirms,
// at which point a StreamReady event fires. The SFU round trip runs
// outside the room lock so a slow negotiation never stalls movement.
func (r *Room) RequestSlot(ctx context.Context, userID string, req StreamRequest) (int, error) {
	r.mu.Lock()
	if _, ok := r.players[userID]; !ok {
		r.mu.Unlock()
		return 0, ErrPlayerNotFound
	}
	if len(r.slots) == 0 {
		r.mu.Unlock()
		return 0, ErrNoFreeSlot
	}

	var freed []string
	for i := range r.slots {
		s := &r.slots[i]
		if s.phase != slotInactive && s.userID == userID {
			if !r.reg.Policies().AllowSlotSwap {
				r.mu.Unlock()
				return 0, ErrSlotConflict
			}
			if s.publisherID != "" {
				freed = append(freed, s.publisherID)
			}
			s.reset()
		}
	}

	idx := -1
	for i := range r.slots {
		if r.slots[i].phase == slotInactive {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return 0, ErrNoFreeSlot
	}

	r.slots[idx] = streamSlot{
		phase:     slotPending,
		userID:    userID,
		withSound: req.WithSound,
		withVideo: req.WithVideo,
		isPrivate: req.IsPrivate,
	}
	mediaRoom := r.mediaRoom
	r.mu.Unlock()

	if len(freed) > 0 {
		go r.revokePublishers(freed)
	}
	go r.provisionSlot(ctx, idx, userID, req, mediaRoom)
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return idx, nil
}

// provisionSlot performs the SFU round trip for a pending slot and commits
// the result back under the room lock. A slot freed in the meantime (user
// disconnected, swap) gets its fresh publisher revoked instead.
func (r *Room) provisionSlot(ctx context.Context, idx int, userID string, req StreamRequest, mediaRoom string) {
	provider := r.reg.mediaProvider
	var err error
	if mediaRoom == "" {
		mediaRoom, err = provider.CreateRoom(ctx, r.Def.ID, r.Def.StreamSlotCount)
	}
	var publisherID string
	if err == nil {
		publisherID, err = provider.RequestPublish(ctx, mediaRoom, media.PublishConstraints{
			WithSound: req.WithSound,
			WithVideo: req.WithVideo,
		})
	}

	if err != nil {
		logger.Warn("room %s: slot %d provisioning failed: %v", r.logKey(), idx, err)
		r.mu.Lock()
		s := &r.slots[idx]
		if s.phase == slotPending && s.userID == userID {
			s.reset()
		}
		r.mu.Unlock()
		r.reg.events().StreamFailed(r.Area, r.Def.ID, idx, userID)
		r.reg.events().RoomChanged(r.Area, r.Def.ID)
		return
	}

	committed := r.markReady(idx, userID, mediaRoom, publisherID)
	if !committed {
		// Raced with a release; the publisher is orphaned, tear it down.
		r.revokePublishers([]string{publisherID})
		return
	}
	r.reg.events().StreamReady(r.Area, r.Def.ID, idx)
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
}

// markReady transitions a pending slot to ready. Returns false when the
// slot was freed or reassigned while the SFU call was in flight.
func (r *Room) markReady(idx int, userID, mediaRoom, publisherID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < 0 || idx >= len(r.slots) {
		return false
	}
	s := &r.slots[idx]
	if s.phase != slotPending || s.userID != userID {
		return false
	}
	s.phase = slotReady
	s.publisherID = publisherID
	if r.mediaRoom == "" {
		r.mediaRoom = mediaRoom
	}
	return true
}

// ReleaseSlot frees a slot owned by the caller. Idempotent when the slot
// is already inactive.
func (r *Room) ReleaseSlot(idx int, userID string) error {
	r.mu.Lock()
	if idx < 0 || idx >= len(r.slots) {
		r.mu.Unlock()
		return ErrSlotConflict
	}
	s := &r.slots[idx]
	if s.phase == slotInactive {
		r.mu.Unlock()
		return nil
	}
	if s.userID != userID {
		r.mu.Unlock()
		return ErrSlotConflict
	}
	publisherID := s.publisherID
	s.reset()
	r.mu.Unlock()

	if publisherID != "" {
		go r.revokePublishers([]string{publisherID})
	}
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return nil
}

// releaseAllForUserLocked frees every slot the user owns. Caller holds the
// room lock; publisher teardown happens asynchronously.
func (r *Room) releaseAllForUserLocked(userID string) {
	var freed []string
	for i := range r.slots {
		s := &r.slots[i]
		if s.phase != slotInactive && s.userID == userID {
			if s.publisherID != "" {
				freed = append(freed, s.publisherID)
			}
			s.reset()
		}
	}
	if len(freed) > 0 {
		go r.revokePublishers(freed)
	}
}

// ReleaseAllForUser frees every slot owned by the user. Called on
// disconnect and on room leave.
func (r *Room) ReleaseAllForUser(userID string) {
	r.mu.Lock()
	r.releaseAllForUserLocked(userID)
	r.mu.Unlock()
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
}

func (r *Room) revokePublishers(ids []string) {
	for _, id := range ids {
		if err := r.reg.mediaProvider.RevokePublish(context.Background(), id); err != nil {
			logger.Warn("room %s: revoke publisher %s: %v", r.logKey(), id, err)
		}
	}
}
