package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotAuthorized    = errors.New("only the room leader can do that")
	ErrIllegalState     = errors.New("operation not valid in the current room state")
	ErrNotEnoughPlayers = errors.New("need at least 2 seated players to start")
	ErrPlayerNotFound   = errors.New("player is not in this room")
	ErrBusy             = errors.New("room command queue is full")
	ErrRoomClosed       = errors.New("room has been closed")
)
