package upload

import (
	"github.com/rs/zerolog"
)

// State is the lifecycle position of one upload invocation
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// transitions lists the allowed moves. There is no retry edge: a failed
// invocation stays failed and the caller starts a new one.
var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateUploading, StateFailed},
	StateUploading:  {StateSucceeded, StateFailed},
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// run tracks the state of a single invocation
type run struct {
	op      string
	state   State
	observe func(op string, s State)
	log     zerolog.Logger
}

func newRun(op string, observe func(string, State), log zerolog.Logger) *run {
	return &run{op: op, state: StateIdle, observe: observe, log: log}
}

func (r *run) to(next State) {
	if !CanTransition(r.state, next) {
		r.log.Error().
			Str("op", r.op).
			Stringer("from", r.state).
			Stringer("to", next).
			Msg("Invalid upload state transition")
		return
	}
	r.log.Debug().Str("op", r.op).Stringer("from", r.state).Stringer("to", next).Msg("Upload state changed")
	r.state = next
	if r.observe != nil {
		r.observe(r.op, next)
	}
}
