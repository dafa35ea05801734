package game

import "errors"

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidMove       = errors.New("invalid move")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrGameNotActive     = errors.New("game is not active")
	ErrNotCreator        = errors.New("only the room creator can delete the room")
	ErrAlreadyRolled     = errors.New("dice already rolled this turn")
	ErrNotRolled         = errors.New("roll the dice first")
	ErrInconsistentState = errors.New("inconsistent room state")
)
