package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type invokerStub struct {
	result string
	err    error
	calls  int
}

func (s *invokerStub) GenerateStream(ctx context.Context, parts []Part, publish func(string)) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if publish != nil {
		publish(s.result)
	}
	return s.result, nil
}

func TestSessionGenerateMovesToPending(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)
	sess.Sequence.SetText(0, "prompt")

	inv := &invokerStub{result: "continuation"}
	err := sess.Generate(context.Background(), inv, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatePending, sess.State())

	pending, ok := sess.Pending()
	assert.True(t, ok)
	assert.Equal(t, "continuation", pending)
}

func TestSessionGenerateRefusesEmptySequence(t *testing.T) {
	sess := NewSession()
	err := sess.Generate(context.Background(), &invokerStub{}, nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
	assert.Equal(t, StateIdle, sess.State())
}

func TestSessionGenerateInvokerFailureStaysIdle(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)

	inv := &invokerStub{err: errors.New("client not constructed")}
	err := sess.Generate(context.Background(), inv, nil)
	assert.Error(t, err)
	assert.Equal(t, StateIdle, sess.State())
}

func TestSessionAcceptMergesAndReturnsToIdle(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)
	sess.Sequence.SetText(0, "a")

	err := sess.Generate(context.Background(), &invokerStub{result: "b"}, nil)
	assert.NoError(t, err)

	assert.True(t, sess.Accept())
	assert.Equal(t, StateIdle, sess.State())

	p, _ := sess.Sequence.Part(0)
	assert.Equal(t, "ab", p.Text)
	assert.Equal(t, 1, sess.Sequence.Len())
}

func TestSessionDeclineKeepsSequenceUnchanged(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)
	sess.Sequence.SetText(0, "a")

	err := sess.Generate(context.Background(), &invokerStub{result: "b"}, nil)
	assert.NoError(t, err)

	sess.Decline()
	assert.Equal(t, StateIdle, sess.State())
	p, _ := sess.Sequence.Part(0)
	assert.Equal(t, "a", p.Text)
}

func TestSessionAcceptWithoutPendingIsNoop(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)
	assert.False(t, sess.Accept())
	assert.Equal(t, 1, sess.Sequence.Len())
}

func TestSessionDeleteForcesIdle(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)
	sess.Add(PartText)

	err := sess.Generate(context.Background(), &invokerStub{result: "r"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatePending, sess.State())

	sess.Delete(-1)
	assert.Equal(t, StateIdle, sess.State())
	assert.Equal(t, 1, sess.Sequence.Len())

	_, ok := sess.Pending()
	assert.False(t, ok)
}

func TestSessionAddDoesNotTouchPending(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)

	err := sess.Generate(context.Background(), &invokerStub{result: "r"}, nil)
	assert.NoError(t, err)

	sess.Add(PartImage)
	assert.Equal(t, StatePending, sess.State())
	assert.Equal(t, 2, sess.Sequence.Len())
}

func TestSessionRegenerateOverwritesPending(t *testing.T) {
	sess := NewSession()
	sess.Add(PartText)

	assert.NoError(t, sess.Generate(context.Background(), &invokerStub{result: "first"}, nil))
	assert.NoError(t, sess.Generate(context.Background(), &invokerStub{result: "second"}, nil))

	pending, ok := sess.Pending()
	assert.True(t, ok)
	assert.Equal(t, "second", pending)
}
