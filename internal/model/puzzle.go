// internal/model/puzzle.go
package model

import (
	"strings"
	"time"
)

// PuzzleState is the lifecycle state of one monitored puzzle
type PuzzleState int

const (
	StateUnknown PuzzleState = iota
	StateIdle
	StateActive
	StateSolved
	StateError
)

func (s PuzzleState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateActive:
		return "Active"
	case StateSolved:
		return "Solved"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ParsePuzzleState maps a state token from the script output to a
// PuzzleState. Anything unrecognized degrades to StateUnknown rather
// than failing the line.
func ParsePuzzleState(s string) PuzzleState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return StateIdle
	case "active", "running":
		return StateActive
	case "solved", "done":
		return StateSolved
	case "error", "fault":
		return StateError
	default:
		return StateUnknown
	}
}

// PuzzleStatus is the latest known status of one puzzle. Created on the
// first line mentioning the puzzle id, updated on every later sighting,
// never deleted during a session.
type PuzzleStatus struct {
	ID          string
	State       PuzzleState
	IP          string // empty until the script announces an address
	LastUpdated time.Time
}
