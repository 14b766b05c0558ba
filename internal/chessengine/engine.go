// Package chessengine wraps an external chess rule engine behind a small
// interface. The world coordinator only sequences turns and clocks; all
// legality, check and mate detection lives here.
package chessengine

import (
	"errors"

	"github.com/notnil/chess"
)

type Color string

const (
	White Color = "w"
	Black Color = "b"
)

// ErrIllegalMove is returned for a move the rules reject.
var ErrIllegalMove = errors.New("illegal move")

// Outcome is the terminal state of a game, if any.
type Outcome struct {
	Over   bool
	Draw   bool
	Winner Color // set when Over && !Draw
}

// Game is one chess game in progress.
type Game interface {
	// Move applies a move in standard algebraic notation, or returns
	// ErrIllegalMove.
	Move(san string) error
	// FEN returns the current position.
	FEN() string
	// Turn returns the side to move.
	Turn() Color
	// Outcome reports whether the game has ended by the rules
	// (checkmate, stalemate, insufficient material, ...).
	Outcome() Outcome
	// Resign ends the game with a loss for the given color.
	Resign(c Color)
}

// Engine creates games.
type Engine interface {
	NewGame() Game
}

// NotnilEngine is the default Engine, backed by github.com/notnil/chess.
type NotnilEngine struct{}

func NewNotnilEngine() *NotnilEngine {
	return &NotnilEngine{}
}

func (NotnilEngine) NewGame() Game {
	return &notnilGame{game: chess.NewGame()}
}

type notnilGame struct {
	game *chess.Game
}

func (g *notnilGame) Move(san string) error {
	if err := g.game.MoveStr(san); err != nil {
		return ErrIllegalMove
	}
	return nil
}

func (g *notnilGame) FEN() string {
	return g.game.Position().String()
}

func (g *notnilGame) Turn() Color {
	if g.game.Position().Turn() == chess.Black {
		return Black
	}
	return White
}

func (g *notnilGame) Outcome() Outcome {
	switch g.game.Outcome() {
	case chess.WhiteWon:
		return Outcome{Over: true, Winner: White}
	case chess.BlackWon:
		return Outcome{Over: true, Winner: Black}
	case chess.Draw:
		return Outcome{Over: true, Draw: true}
	}
	return Outcome{}
}

func (g *notnilGame) Resign(c Color) {
	if c == Black {
		g.game.Resign(chess.Black)
	} else {
		g.game.Resign(chess.White)
	}
}
