package world

import "errors"

// Expected, recoverable outcomes. None of these are fatal: a caller maps
// them to a user-visible message and the room state stays consistent.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrRoomFull            = errors.New("room full")
	ErrNotAllowed          = errors.New("not allowed")
	ErrNoFreeSlot          = errors.New("no free stream slot")
	ErrSlotConflict        = errors.New("slot conflict")
	ErrNoChessboard        = errors.New("room has no chessboard")
	ErrSeatsFull           = errors.New("both seats taken")
	ErrAlreadySeated       = errors.New("already seated")
	ErrNoGame              = errors.New("no game in progress")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrIllegalMove         = errors.New("illegal move")
	ErrProviderUnavailable = errors.New("provider unavailable")
)
