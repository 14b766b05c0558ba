package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"poipoi/internal/catalog"
	"poipoi/internal/chessengine"
	"poipoi/internal/media"
	"poipoi/internal/world"
)

// Offline walkthrough of the builtin world: walk a player around the rooms
// from the terminal without running the server.
func main() {
	cat, err := catalog.Builtin()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
	reg := world.NewRegistry(cat, world.Deps{
		Media: media.NewMemory(),
		Chess: chessengine.NewNotnilEngine(),
	})

	area := cat.Areas()[0]
	p, err := reg.Join(area, "lobby", "walker", "You", "giko")
	if err != nil {
		fmt.Fprintln(os.Stderr, "join:", err)
		os.Exit(1)
	}
	roomID := p.RoomID
	pos := p.Position

	fmt.Println("Walkthrough. Commands: up down left right quit")
	reader := bufio.NewReader(os.Stdin)
	for {
		def, _ := cat.Get(roomID)
		fmt.Printf("\nRoom: %s  position: (%d,%d)\n", roomID, pos.X, pos.Y)
		printRoom(def, pos)

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		if cmd == "quit" || cmd == "q" {
			return
		}
		dir := catalog.Direction(cmd)
		if !dir.Valid() {
			fmt.Println("Unknown command.")
			continue
		}

		out, err := reg.MovePlayer(area, roomID, "walker", dir)
		if err != nil {
			fmt.Println("Move failed:", err)
			continue
		}
		switch out.Kind {
		case world.MoveBlocked:
			fmt.Println("Blocked.")
		case world.MoveDoor:
			fmt.Printf("Through door %q into %s.\n", out.DoorID, out.Target.RoomID)
			roomID = out.Target.RoomID
		}
		pos = out.Position
	}
}

func printRoom(def *catalog.RoomDefinition, pos catalog.Coordinates) {
	for y := 0; y < def.Size.Y; y++ {
		var b strings.Builder
		for x := 0; x < def.Size.X; x++ {
			c := catalog.Coordinates{X: x, Y: y}
			switch {
			case c == pos:
				b.WriteString(" @")
			case def.IsBlocked(c):
				b.WriteString(" #")
			case doorTile(def, c):
				b.WriteString(" D")
			case def.IsSittable(c):
				b.WriteString(" s")
			default:
				b.WriteString(" .")
			}
		}
		fmt.Println(b.String())
	}
}

func doorTile(def *catalog.RoomDefinition, c catalog.Coordinates) bool {
	_, ok := def.DoorAt(c)
	return ok
}
