package scanner

import (
	"encoding/json"
)

type outcomeState uint8

const (
	stateNotFound outcomeState = iota
	stateFound
	stateFailed
)

// Outcome is the tri-state result of a single lookup: exactly one of
// found-with-value, not-found, or failed-with-error. Absence is not an
// error, and a failure never carries a value.
type Outcome[T any] struct {
	state outcomeState
	value T
	err   string
}

// Found wraps a successfully looked-up value.
func Found[T any](v T) Outcome[T] {
	return Outcome[T]{state: stateFound, value: v}
}

// NotFound records that the lookup completed but the record/header/signal
// does not exist.
func NotFound[T any]() Outcome[T] {
	return Outcome[T]{state: stateNotFound}
}

// Failed records a network, protocol, or parse failure.
func Failed[T any](msg string) Outcome[T] {
	return Outcome[T]{state: stateFailed, err: msg}
}

func (o Outcome[T]) IsFound() bool    { return o.state == stateFound }
func (o Outcome[T]) IsNotFound() bool { return o.state == stateNotFound }
func (o Outcome[T]) IsFailed() bool   { return o.state == stateFailed }

// Value returns the wrapped value and whether the outcome is Found.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.state == stateFound
}

// Err returns the failure message, or "" when the outcome is not Failed.
func (o Outcome[T]) Err() string {
	if o.state != stateFailed {
		return ""
	}
	return o.err
}

// MarshalJSON renders the outcome with an explicit status tag so exported
// reports make the three states unambiguous.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	switch o.state {
	case stateFound:
		return json.Marshal(struct {
			Status string `json:"status"`
			Value  T      `json:"value"`
		}{"found", o.value})
	case stateFailed:
		return json.Marshal(struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}{"failed", o.err})
	default:
		return json.Marshal(struct {
			Status string `json:"status"`
		}{"not_found"})
	}
}
