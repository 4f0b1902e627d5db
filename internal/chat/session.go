package chat

import (
	"context"
	"errors"
)

// State of a session with respect to its generation result.
type State string

const (
	StateIdle    State = "idle"    // no generation result awaiting review
	StatePending State = "pending" // a result exists, awaiting accept/decline
)

// ErrEmptySequence is returned when generation is requested for a sequence
// with no parts. The frontend disables the control in that case, so hitting
// this is a programming error rather than a user-visible failure.
var ErrEmptySequence = errors.New("cannot generate from an empty part sequence")

// Invoker produces a continuation for an ordered part sequence. publish
// receives every intermediate accumulation for progressive display; the
// returned string is the final value. Transport and safety failures are
// folded into the returned string as an error marker, not an error: a
// non-nil error means the call could not be made at all.
type Invoker interface {
	GenerateStream(ctx context.Context, parts []Part, publish func(string)) (string, error)
}

// Session holds the state of one chat composer: the part sequence plus an
// at-most-one pending generation result. A Session is owned by a single
// frontend tab and is never shared between users.
type Session struct {
	Sequence Sequence

	pending    string
	hasPending bool
}

func NewSession() *Session {
	return &Session{}
}

// State reports whether a generation result is awaiting accept/decline.
func (s *Session) State() State {
	if s.hasPending {
		return StatePending
	}
	return StateIdle
}

// Pending returns the undecided generation result, if any.
func (s *Session) Pending() (string, bool) {
	return s.pending, s.hasPending
}

// Generate runs the invoker over the current sequence and stores the
// outcome as the pending result. Invoking while a result is already pending
// overwrites it; the caller decides whether to guard against that.
func (s *Session) Generate(ctx context.Context, inv Invoker, publish func(string)) error {
	if s.Sequence.Len() == 0 {
		return ErrEmptySequence
	}
	text, err := inv.GenerateStream(ctx, s.Sequence.Parts(), publish)
	if err != nil {
		return err
	}
	s.pending = text
	s.hasPending = true
	return nil
}

// Accept merges the pending result into the sequence and clears it.
func (s *Session) Accept() bool {
	if !s.hasPending {
		return false
	}
	s.Sequence.MergeGeneration(s.pending)
	s.clearPending()
	return true
}

// Decline discards the pending result without touching the sequence.
func (s *Session) Decline() {
	s.clearPending()
}

// Add appends a new empty part. The pending result is left alone.
func (s *Session) Add(kind PartKind) {
	s.Sequence.Append(kind)
}

// Delete truncates the sequence at index and force-clears any pending
// result, so the session is always idle afterwards.
func (s *Session) Delete(index int) {
	s.Sequence.Truncate(index)
	s.clearPending()
}

func (s *Session) clearPending() {
	s.pending = ""
	s.hasPending = false
}
