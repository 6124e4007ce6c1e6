package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputs_Emit(t *testing.T) {
	t.Run("subscribers run in registration order", func(t *testing.T) {
		// --- Arrange ---
		out := NewOutputs("rows")
		var calls []string
		require.NoError(t, out.Subscribe("rows", func(v any) error {
			calls = append(calls, "first:"+v.(string))
			return nil
		}))
		require.NoError(t, out.Subscribe("rows", func(v any) error {
			calls = append(calls, "second:"+v.(string))
			return nil
		}))

		// --- Act ---
		err := out.Emit("rows", "x")

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, []string{"first:x", "second:x"}, calls)
	})

	t.Run("first error stops fan-out", func(t *testing.T) {
		// --- Arrange ---
		out := NewOutputs("rows")
		boom := errors.New("boom")
		secondCalled := false
		require.NoError(t, out.Subscribe("rows", func(any) error { return boom }))
		require.NoError(t, out.Subscribe("rows", func(any) error {
			secondCalled = true
			return nil
		}))

		// --- Act ---
		err := out.Emit("rows", nil)

		// --- Assert ---
		require.ErrorIs(t, err, boom)
		assert.False(t, secondCalled)
	})

	t.Run("unknown port", func(t *testing.T) {
		out := NewOutputs("rows")
		assert.ErrorIs(t, out.Subscribe("nope", func(any) error { return nil }), ErrUnknownPort)
		assert.ErrorIs(t, out.Emit("nope", nil), ErrUnknownPort)
	})

	t.Run("closed bus refuses emits", func(t *testing.T) {
		out := NewOutputs("rows")
		require.NoError(t, out.Subscribe("rows", func(any) error { return nil }))
		out.Close()
		assert.False(t, out.HasSubscribers("rows"))
		assert.ErrorIs(t, out.Emit("rows", nil), ErrStopped)
	})
}

type recordingHandler struct {
	calls []string
	last  []any
}

func (h *recordingHandler) Process(port string, values []any) error {
	h.calls = append(h.calls, port)
	h.last = values
	return nil
}

func TestAdapter_FanInSlots(t *testing.T) {
	// --- Arrange ---
	left := NewSource("src", "rows", "L")
	right := NewSource("src", "rows", "R")
	a := NewAdapter("sink", []string{"rows"}, nil)
	h := &recordingHandler{}
	a.SetHandler(h)
	require.NoError(t, a.RegisterProcessor("rows", "rows", left))
	require.NoError(t, a.RegisterProcessor("rows", "rows", right))

	// --- Act & Assert ---
	assert.Equal(t, 2, a.Wired("rows"))

	require.NoError(t, left.OnStart())
	assert.Empty(t, h.calls, "handler must wait for every fan-in target")
	assert.False(t, a.Ready("rows"))

	require.NoError(t, right.OnStart())
	assert.Equal(t, []string{"rows"}, h.calls)
	assert.Equal(t, []any{"L", "R"}, h.last)

	require.NoError(t, left.Push("L2"))
	assert.Equal(t, []any{"L2", "R"}, h.last)
}

func TestAdapter_UnknownInput(t *testing.T) {
	a := NewAdapter("sink", []string{"rows"}, nil)
	err := a.RegisterProcessor("columns", "rows", NewSource("src", "rows", nil))
	assert.ErrorIs(t, err, ErrUnknownPort)
}

func TestSource(t *testing.T) {
	// --- Arrange ---
	s := NewSource("datasource", "rows", 1)
	var got []any
	require.NoError(t, s.Subscribe("rows", func(v any) error {
		got = append(got, v)
		return nil
	}))

	// --- Act ---
	require.NoError(t, s.OnStart())
	require.NoError(t, s.Push(2))
	s.OnStop()

	// --- Assert ---
	assert.Equal(t, []any{1, 2}, got)
	assert.Equal(t, 2, s.Value())
	assert.ErrorIs(t, s.Push(3), ErrStopped)
	assert.ErrorIs(t, s.RegisterProcessor("in", "out", s), ErrUnknownPort)
}
