package core

import (
	"errors"
	"fmt"
)

var (
	ErrSetupError           = errors.New("setup error")
	ErrNotInSetup           = fmt.Errorf("%w: game is not in setup", ErrSetupError)
	ErrCellOccupied         = fmt.Errorf("%w: cell is already occupied", ErrSetupError)
	ErrDuplicateHunter      = fmt.Errorf("%w: only one hunter is allowed", ErrSetupError)
	ErrInvalidKind          = fmt.Errorf("%w: invalid entity kind", ErrSetupError)
	ErrInvalidTreasureValue = fmt.Errorf("%w: invalid treasure value", ErrSetupError)
	ErrOutOfBounds          = fmt.Errorf("%w: position out of bounds", ErrSetupError)

	ErrSetupIncomplete  = errors.New("hunter must be placed before setup can complete")
	ErrMoveRejected     = errors.New("cannot move to that location (out of bounds or obstacle)")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrStageViolation   = errors.New("operation not allowed in current stage")
)

// WrapSetupError adds the placement context to a setup error
func WrapSetupError(kind string, pos Position, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("place %s at %s: %w", kind, pos, err)
}

// WrapMoveError adds the attempted move to a movement error
func WrapMoveError(from Position, dir Direction, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("hunter move %s from %s: %w", dir, from, err)
}

// GameError is a structured error carrying the round and operation it happened in
type GameError struct {
	Round     int
	Stage     string
	Operation string
	Err       error
}

// NewGameError creates a GameError
func NewGameError(round int, stage, operation string, err error) *GameError {
	return &GameError{
		Round:     round,
		Stage:     stage,
		Operation: operation,
		Err:       err,
	}
}

func (e *GameError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("round %d [%s]: %s: %v", e.Round, e.Stage, e.Operation, e.Err)
	}
	return fmt.Sprintf("round %d: %s: %v", e.Round, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}
