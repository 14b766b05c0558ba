package world

import (
	"time"

	"poipoi/internal/chessengine"
	"poipoi/internal/logger"
)

// chessSession is the embedded two-player game of a room. Seats are
// assigned first-come (first joiner plays white) and keep their color for
// the whole game. The session owns the move clock; the clock is disarmed
// exactly once per game-ending event.
type chessSession struct {
	game        chessengine.Game
	whiteUserID string
	blackUserID string
	lastMove    time.Time
	finished    bool

	// clockGen guards against a stale timer firing after a reset or a
	// game end: the AfterFunc callback captures the generation it was
	// armed with and no-ops when it no longer matches.
	clockGen int
	clock    *time.Timer
}

func (s *chessSession) bothSeated() bool {
	return s.whiteUserID != "" && s.blackUserID != ""
}

func (s *chessSession) seatOf(userID string) (chessengine.Color, bool) {
	switch userID {
	case "":
		return "", false
	case s.whiteUserID:
		return chessengine.White, true
	case s.blackUserID:
		return chessengine.Black, true
	}
	return "", false
}

func (s *chessSession) seatHolder(c chessengine.Color) string {
	if c == chessengine.Black {
		return s.blackUserID
	}
	return s.whiteUserID
}

// ChessJoin claims a free seat. The first joiner plays white. Once both
// seats are taken the game starts and the move clock is armed for white.
// Joining a finished session discards it and seats the joiner in a fresh
// one.
func (r *Room) ChessJoin(userID string) (chessengine.Color, error) {
	r.mu.Lock()
	if !r.Def.HasChessboard {
		r.mu.Unlock()
		return "", ErrNoChessboard
	}
	if _, ok := r.players[userID]; !ok {
		r.mu.Unlock()
		return "", ErrPlayerNotFound
	}
	if r.chess != nil && r.chess.finished {
		r.stopClockLocked()
		r.chess = nil
	}
	if r.chess == nil {
		r.chess = &chessSession{}
	}
	s := r.chess
	if _, seated := s.seatOf(userID); seated {
		r.mu.Unlock()
		return "", ErrAlreadySeated
	}
	var color chessengine.Color
	switch {
	case s.whiteUserID == "":
		s.whiteUserID = userID
		color = chessengine.White
	case s.blackUserID == "":
		s.blackUserID = userID
		color = chessengine.Black
	default:
		r.mu.Unlock()
		return "", ErrSeatsFull
	}
	if s.bothSeated() && s.game == nil {
		s.game = r.reg.chessEngine.NewGame()
		s.lastMove = time.Now()
		r.armClockLocked()
	}
	r.mu.Unlock()
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return color, nil
}

// ChessMove applies a move in algebraic notation for the player holding
// the seat whose turn it is. A legal move flips the turn, restamps the
// clock, and may end the game (checkmate, stalemate, draw).
func (r *Room) ChessMove(userID, san string) error {
	r.mu.Lock()
	s := r.chess
	if s == nil || s.game == nil || s.finished {
		r.mu.Unlock()
		return ErrNoGame
	}
	color, seated := s.seatOf(userID)
	if !seated || color != s.game.Turn() {
		r.mu.Unlock()
		return ErrNotYourTurn
	}
	if err := s.game.Move(san); err != nil {
		r.mu.Unlock()
		return ErrIllegalMove
	}
	s.lastMove = time.Now()

	outcome := s.game.Outcome()
	if outcome.Over {
		r.finishChessLocked()
		winner := ""
		if !outcome.Draw {
			winner = s.seatHolder(outcome.Winner)
		}
		r.mu.Unlock()
		if outcome.Draw {
			r.reg.events().ChessOver(r.Area, r.Def.ID, "draw", "")
		} else {
			r.reg.events().ChessOver(r.Area, r.Def.ID, "checkmate", winner)
		}
		r.reg.events().RoomChanged(r.Area, r.Def.ID)
		return nil
	}

	r.armClockLocked()
	r.mu.Unlock()
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return nil
}

// ChessResign lets a seated player concede at any point of a running game.
func (r *Room) ChessResign(userID string) error {
	r.mu.Lock()
	s := r.chess
	if s == nil || s.game == nil || s.finished {
		r.mu.Unlock()
		return ErrNoGame
	}
	color, seated := s.seatOf(userID)
	if !seated {
		r.mu.Unlock()
		return ErrNotYourTurn
	}
	s.game.Resign(color)
	r.finishChessLocked()
	winner := s.seatHolder(opponent(color))
	r.mu.Unlock()
	r.reg.events().ChessOver(r.Area, r.Def.ID, "resignation", winner)
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return nil
}

// vacateSeatLocked handles a seated player leaving the room. A running
// game ends immediately with a forfeit for the vacating color; a lone
// waiting player just frees the seat. The forfeit winner is returned for
// the caller to emit once the room lock is released, so subscribers see
// the chess-over frame before the post-forfeit room state.
func (r *Room) vacateSeatLocked(userID string) (winner string, forfeited bool) {
	s := r.chess
	if s == nil {
		return "", false
	}
	color, seated := s.seatOf(userID)
	if !seated {
		return "", false
	}
	if s.game != nil && !s.finished {
		s.game.Resign(color)
		r.finishChessLocked()
		return s.seatHolder(opponent(color)), true
	}
	if color == chessengine.White {
		s.whiteUserID = ""
	} else {
		s.blackUserID = ""
	}
	if !s.bothSeated() && s.game == nil && s.whiteUserID == "" && s.blackUserID == "" {
		r.chess = nil
	}
	return "", false
}

// armClockLocked (re)schedules the move clock for the side to move.
func (r *Room) armClockLocked() {
	s := r.chess
	r.stopClockLocked()
	s.clockGen++
	gen := s.clockGen
	s.clock = time.AfterFunc(r.reg.chessClock, func() {
		r.chessTimeout(gen)
	})
}

// stopClockLocked disarms the clock. Safe to call when no clock is armed;
// the generation bump makes an already-fired callback a no-op.
func (r *Room) stopClockLocked() {
	s := r.chess
	if s == nil {
		return
	}
	s.clockGen++
	if s.clock != nil {
		s.clock.Stop()
		s.clock = nil
	}
}

// finishChessLocked marks the game over and cancels the clock. This is the
// single place a game end disarms the clock, whatever the cause.
func (r *Room) finishChessLocked() {
	r.chess.finished = true
	r.stopClockLocked()
}

// chessTimeout fires when the side to move ran out of clock. The stale-
// generation check covers the race with a move committed or a game ended
// while the callback was in flight.
func (r *Room) chessTimeout(gen int) {
	r.mu.Lock()
	s := r.chess
	if s == nil || s.finished || s.game == nil || gen != s.clockGen {
		r.mu.Unlock()
		return
	}
	loser := s.game.Turn()
	s.game.Resign(loser)
	r.finishChessLocked()
	winner := s.seatHolder(opponent(loser))
	r.mu.Unlock()
	logger.Info("room %s: chess game timed out, %s wins", r.logKey(), winner)
	r.reg.events().ChessOver(r.Area, r.Def.ID, "timeout", winner)
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
}

func opponent(c chessengine.Color) chessengine.Color {
	if c == chessengine.White {
		return chessengine.Black
	}
	return chessengine.White
}
