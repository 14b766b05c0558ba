package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinWorldValidates(t *testing.T) {
	cat, err := Builtin()
	if err != nil {
		t.Fatalf("builtin world invalid: %v", err)
	}
	if len(cat.Areas()) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(cat.Areas()))
	}
	lobby, ok := cat.Get("lobby")
	if !ok {
		t.Fatal("builtin world missing lobby")
	}
	if lobby.StreamSlotCount != 2 {
		t.Fatalf("lobby slot count = %d", lobby.StreamSlotCount)
	}
	if _, ok := cat.Get("no-such-room"); ok {
		t.Fatal("lookup of unknown room succeeded")
	}
}

func TestDirectionVectors(t *testing.T) {
	cases := []struct {
		dir    Direction
		dx, dy int
	}{
		{Up, 0, -1},
		{Down, 0, 1},
		{Left, -1, 0},
		{Right, 1, 0},
	}
	for _, c := range cases {
		dx, dy := c.dir.Vector()
		if dx != c.dx || dy != c.dy {
			t.Errorf("%s vector = (%d,%d), want (%d,%d)", c.dir, dx, dy, c.dx, c.dy)
		}
		if c.dir.Opposite().Opposite() != c.dir {
			t.Errorf("%s opposite not involutive", c.dir)
		}
	}
	if Direction("sideways").Valid() {
		t.Error("bogus direction reported valid")
	}
}

func TestRoomLookups(t *testing.T) {
	def := &RoomDefinition{
		ID:      "r",
		Size:    Coordinates{X: 5, Y: 5},
		Blocked: []Coordinates{{X: 2, Y: 2}},
		Sit:     []Coordinates{{X: 1, Y: 1}},
		ForbiddenMovements: []ForbiddenMovement{
			{From: Coordinates{X: 0, Y: 1}, To: Coordinates{X: 0, Y: 0}},
		},
		Doors: map[string]Door{
			"out": {Position: Coordinates{X: 4, Y: 4}, Direction: Right},
		},
	}
	if _, err := New([]string{"a"}, []*RoomDefinition{def}); err != nil {
		t.Fatalf("catalog: %v", err)
	}

	if !def.IsBlocked(Coordinates{X: 2, Y: 2}) || def.IsBlocked(Coordinates{X: 2, Y: 1}) {
		t.Error("blocked lookup wrong")
	}
	if !def.IsSittable(Coordinates{X: 1, Y: 1}) {
		t.Error("sit lookup wrong")
	}
	if !def.IsForbidden(Coordinates{X: 0, Y: 1}, Coordinates{X: 0, Y: 0}) {
		t.Error("forbidden pair not found")
	}
	if def.IsForbidden(Coordinates{X: 0, Y: 0}, Coordinates{X: 0, Y: 1}) {
		t.Error("forbidden pair should be directional")
	}
	if id, ok := def.DoorAt(Coordinates{X: 4, Y: 4}); !ok || id != "out" {
		t.Errorf("door lookup = %q %v", id, ok)
	}
	if def.InBounds(Coordinates{X: 5, Y: 0}) || def.InBounds(Coordinates{X: -1, Y: 0}) {
		t.Error("bounds check wrong")
	}
}

func TestCatalogValidation(t *testing.T) {
	base := func() *RoomDefinition {
		return &RoomDefinition{ID: "r", Size: Coordinates{X: 3, Y: 3}}
	}

	t.Run("duplicate id", func(t *testing.T) {
		if _, err := New([]string{"a"}, []*RoomDefinition{base(), base()}); err == nil {
			t.Fatal("expected duplicate id to fail")
		}
	})
	t.Run("empty size", func(t *testing.T) {
		d := base()
		d.Size = Coordinates{}
		if _, err := New([]string{"a"}, []*RoomDefinition{d}); err == nil {
			t.Fatal("expected empty size to fail")
		}
	})
	t.Run("dangling door target", func(t *testing.T) {
		d := base()
		d.Doors = map[string]Door{
			"out": {Position: Coordinates{X: 0, Y: 0}, Direction: Up,
				Target: &DoorTarget{RoomID: "nowhere", DoorID: "in"}},
		}
		if _, err := New([]string{"a"}, []*RoomDefinition{d}); err == nil {
			t.Fatal("expected dangling door target to fail")
		}
	})
	t.Run("no areas", func(t *testing.T) {
		if _, err := New(nil, []*RoomDefinition{base()}); err == nil {
			t.Fatal("expected empty area list to fail")
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	payload := `{
		"areas": ["main"],
		"rooms": [
			{
				"id": "plaza",
				"scale": 1,
				"size": {"x": 4, "y": 4},
				"spawnPoint": "gate",
				"doors": {
					"gate": {"position": {"x": 0, "y": 0}, "direction": "down"}
				},
				"streamSlotCount": 1
			}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	plaza, ok := cat.Get("plaza")
	if !ok {
		t.Fatal("loaded catalog missing plaza")
	}
	if door, ok := plaza.SpawnDoor(); !ok || door.Direction != Down {
		t.Fatalf("spawn door = %+v ok=%v", door, ok)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}
