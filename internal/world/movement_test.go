package world

import (
	"testing"
	"time"

	"poipoi/internal/catalog"
	"poipoi/internal/chessengine"
	"poipoi/internal/config"
	"poipoi/internal/media"
)

func TestMoveOntoOpenTile(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	w.join(t, "u1", catalog.Coordinates{X: 5, Y: 5})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Left)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveApplied {
		t.Fatalf("expected MoveApplied, got %v", out.Kind)
	}
	if out.Position != (catalog.Coordinates{X: 4, Y: 5}) {
		t.Fatalf("expected (4,5), got %+v", out.Position)
	}
	if out.Direction != catalog.Left {
		t.Fatalf("expected facing left, got %s", out.Direction)
	}
}

func TestMoveIntoBlockedTile(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	room := w.join(t, "u1", catalog.Coordinates{X: 3, Y: 4})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Up)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveBlocked {
		t.Fatalf("expected MoveBlocked, got %v", out.Kind)
	}
	if out.Position != (catalog.Coordinates{X: 3, Y: 4}) {
		t.Fatalf("position changed on blocked move: %+v", out.Position)
	}
	// default policy: bump into the wall but turn to face it
	snap := room.Snapshot("")
	if snap.ConnectedUsers[0].Direction != catalog.Up {
		t.Fatalf("expected facing up after blocked move, got %s", snap.ConnectedUsers[0].Direction)
	}
}

func TestBlockedMoveKeepsFacingWhenPolicyOff(t *testing.T) {
	pol := config.Policies{TurnOnBlocked: false}
	w := newTestWorld(t, pol, time.Minute)
	room := w.join(t, "u1", catalog.Coordinates{X: 3, Y: 4})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Up)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveBlocked {
		t.Fatalf("expected MoveBlocked, got %v", out.Kind)
	}
	snap := room.Snapshot("")
	if snap.ConnectedUsers[0].Direction != catalog.Down {
		t.Fatalf("expected facing unchanged (down), got %s", snap.ConnectedUsers[0].Direction)
	}
}

func TestMoveOutOfBounds(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	w.join(t, "u1", catalog.Coordinates{X: 0, Y: 5})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Left)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveBlocked {
		t.Fatalf("expected MoveBlocked at room edge, got %v", out.Kind)
	}
}

func TestForbiddenMovementPair(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	w.join(t, "u1", catalog.Coordinates{X: 4, Y: 4})

	// (4,3) is open but the (4,4)->(4,3) transition is forbidden.
	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Up)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveBlocked {
		t.Fatalf("expected forbidden pair to block, got %v", out.Kind)
	}

	// The same tile is reachable from another direction.
	w.join(t, "u2", catalog.Coordinates{X: 5, Y: 3})
	out, err = w.reg.MovePlayer("for", "lobby", "u2", catalog.Left)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveApplied || out.Position != (catalog.Coordinates{X: 4, Y: 3}) {
		t.Fatalf("expected (4,3) reachable from the right, got %v %+v", out.Kind, out.Position)
	}
}

func TestSittingOnSittableTile(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	w.join(t, "u1", catalog.Coordinates{X: 1, Y: 2})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Up)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !out.IsSitting {
		t.Fatal("expected player to sit on sittable tile (1,1)")
	}
}

func TestDoorTraversal(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	lobby := w.join(t, "u1", catalog.Coordinates{X: 7, Y: 4})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Right)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Kind != MoveDoor {
		t.Fatalf("expected MoveDoor, got %v", out.Kind)
	}
	if out.Target.RoomID != "den" {
		t.Fatalf("expected target den, got %q", out.Target.RoomID)
	}

	if lobby.HasPlayer("u1") {
		t.Fatal("player still in source room after traversal")
	}
	den, _ := w.reg.Room("for", "den")
	if !den.HasPlayer("u1") {
		t.Fatal("player missing from target room")
	}
	// den's lobby door is at (0,1) facing right: landing is the adjacent tile
	snap := den.Snapshot("")
	if snap.ConnectedUsers[0].Position != (catalog.Coordinates{X: 1, Y: 1}) {
		t.Fatalf("expected landing (1,1), got %+v", snap.ConnectedUsers[0].Position)
	}
	if snap.ConnectedUsers[0].Direction != catalog.Right {
		t.Fatalf("expected facing right, got %s", snap.ConnectedUsers[0].Direction)
	}
}

func TestDoorTraversalAdmissionFailure(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	if _, err := w.reg.Join("for", "den", "squatter", "bob", "giko"); err != nil {
		t.Fatalf("join den: %v", err)
	}
	lobby := w.join(t, "u1", catalog.Coordinates{X: 7, Y: 4})

	out, err := w.reg.MovePlayer("for", "lobby", "u1", catalog.Right)
	if err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if out.Kind != MoveBlocked {
		t.Fatalf("expected MoveBlocked outcome on failed admission, got %v", out.Kind)
	}
	if !lobby.HasPlayer("u1") {
		t.Fatal("player lost from source room after failed admission")
	}
}

func TestWorldTeleportCrossesAreas(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	w.join(t, "u1", catalog.Coordinates{X: 4, Y: 4})

	out, err := w.reg.TeleportWorld("for", "lobby", "u1", "gen")
	if err != nil {
		t.Fatalf("teleport: %v", err)
	}
	if out.Position != (catalog.Coordinates{X: 4, Y: 0}) {
		t.Fatalf("expected world spawn (4,0), got %+v", out.Position)
	}
	src, _ := w.reg.Room("for", "lobby")
	dst, _ := w.reg.Room("gen", "lobby")
	if src.HasPlayer("u1") || !dst.HasPlayer("u1") {
		t.Fatal("player not atomically migrated between areas")
	}
}

func TestMoveUnknownPlayer(t *testing.T) {
	w := newTestWorld(t, defaultPolicies(), time.Minute)
	if _, err := w.reg.MovePlayer("for", "lobby", "ghost", catalog.Up); err != ErrPlayerNotFound {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestDoorToSameRoom(t *testing.T) {
	cat, err := catalog.New([]string{"for"}, []*catalog.RoomDefinition{{
		ID:         "hall",
		Scale:      1,
		Size:       catalog.Coordinates{X: 8, Y: 8},
		SpawnPoint: "in",
		Doors: map[string]catalog.Door{
			"in": {Position: catalog.Coordinates{X: 1, Y: 1}, Direction: catalog.Down},
			"warp": {
				Position:  catalog.Coordinates{X: 5, Y: 2},
				Direction: catalog.Right,
				Target:    &catalog.DoorTarget{RoomID: "hall", DoorID: "in"},
			},
		},
	}})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	reg := NewRegistry(cat, Deps{
		Media:    media.NewMemory(),
		Chess:    chessengine.NewNotnilEngine(),
		Policies: defaultPolicies(),
	})
	if _, err := reg.Join("for", "hall", "u1", "alice", "giko"); err != nil {
		t.Fatalf("join: %v", err)
	}
	room, _ := reg.Room("for", "hall")
	room.mu.Lock()
	room.players["u1"].Position = catalog.Coordinates{X: 4, Y: 2}
	room.mu.Unlock()

	done := make(chan struct{})
	var out MoveOutcome
	var moveErr error
	go func() {
		out, moveErr = reg.MovePlayer("for", "hall", "u1", catalog.Right)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("traversal through a same-room door hung")
	}
	if moveErr != nil || out.Kind != MoveDoor {
		t.Fatalf("expected MoveDoor, got %+v err %v", out, moveErr)
	}
	if want := (catalog.Coordinates{X: 1, Y: 2}); out.Position != want {
		t.Fatalf("expected landing at %+v, got %+v", want, out.Position)
	}
	if !room.HasPlayer("u1") {
		t.Fatal("player lost during same-room traversal")
	}

	// the room lock is still serviceable afterwards
	if _, err := room.MovePlayer("u1", catalog.Down); err != nil {
		t.Fatalf("room unusable after same-room traversal: %v", err)
	}
}
