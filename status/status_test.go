// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package status

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := map[Code]string{
		Success:            "success",
		Runtime:            "runtime error",
		Logic:              "logic error",
		BadAlloc:           "bad allocation",
		Unknown:            "unknown error",
		OperationUndefined: "operation undefined",
		AtomUndefined:      "atom undefined",
		FileIncluded:       "file included",
		VariableUnbounded:  "variable unbounded",
		GlobalVariable:     "global variable",
		Code(-1):           "unknown message code",
		Code(10):           "unknown message code",
		Code(1 << 20):      "unknown message code",
	}
	for c, want := range tests {
		assert.Equal(t, want, Message(c), "code %d", int(c))
		assert.Equal(t, want, c.String(), "code %d", int(c))
	}
}

func TestIsWarning(t *testing.T) {
	for c := Success; c <= Unknown; c++ {
		assert.False(t, c.IsWarning(), c.String())
	}
	for c := OperationUndefined; c <= GlobalVariable; c++ {
		assert.True(t, c.IsWarning(), c.String())
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Success, CodeOf(nil))
	assert.Equal(t, Logic, CodeOf(Errorf(Logic, "bad")))
	assert.Equal(t, Runtime, CodeOf(errors.New("plain")))
	wrapped := fmt.Errorf("outer: %w", Errorf(Logic, "inner"))
	assert.Equal(t, Logic, CodeOf(wrapped))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "logic error", (&Error{Code: Logic}).Error())
	assert.Equal(t, "runtime error: boom", (&Error{Code: Runtime, Err: errors.New("boom")}).Error())
	assert.Equal(t, "ctx: boom", Wrap(Runtime, errors.New("boom"), "ctx").Error())
}

func TestSignalPreserved(t *testing.T) {
	err := Wrap(Runtime, Signal(42), "error in callback")
	err2 := fmt.Errorf("again: %w", err)
	s, ok := SignalOf(err2)
	require.True(t, ok)
	assert.Equal(t, Signal(42), s)
	assert.Equal(t, Runtime, CodeOf(err2))

	_, ok = SignalOf(errors.New("nope"))
	assert.False(t, ok)
}

func guarded(f func() error) (err error) {
	defer Guard(&err)
	return f()
}

func TestGuard(t *testing.T) {
	err := guarded(func() error { return nil })
	assert.NoError(t, err)

	err = guarded(func() error { return errors.New("plain") })
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, Runtime, e.Code)
	assert.EqualError(t, e.Err, "plain")

	err = guarded(func() error {
		var xs []int
		_ = xs[3]
		return nil
	})
	assert.Equal(t, Logic, CodeOf(err))

	err = guarded(func() error { panic(Errorf(BadAlloc, "oom")) })
	assert.Equal(t, BadAlloc, CodeOf(err))

	err = guarded(func() error { panic("what") })
	assert.Equal(t, Unknown, CodeOf(err))

	err = guarded(func() error { return Signal(3) })
	s, ok := SignalOf(err)
	assert.True(t, ok)
	assert.Equal(t, Signal(3), s)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	p := NewPrinter(log, 2)
	p.Warn(AtomUndefined, "first")
	p.Warn(OperationUndefined, "second")
	p.Warn(AtomUndefined, "third")
	assert.Equal(t, 2, p.Count())
	out := buf.String()
	assert.Contains(t, out, "msg=first")
	assert.Contains(t, out, `code="atom undefined"`)
	assert.Contains(t, out, "message_code=5")
	assert.NotContains(t, out, "third")
	assert.Equal(t, 2, strings.Count(out, "level=WARN"))
}

func TestPrinterNil(t *testing.T) {
	var p *Printer
	p.Warn(AtomUndefined, "dropped")
	assert.Equal(t, 0, p.Count())
	assert.NotNil(t, p.Logger())

	q := NewPrinter(nil, -1)
	q.Warn(AtomUndefined, "dropped")
	assert.Equal(t, 0, q.Count())
}
