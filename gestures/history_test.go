package gestures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id int64, x float64) PointerEvent {
	return PointerEvent{Kind: KindMove, PointerID: id, X: x}
}

func TestHistory_PushAndLast(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 3, h.Cap())

	_, ok := h.Last()
	assert.False(t, ok, "empty buffer has no last event")

	h.Push(ev(1, 10))
	h.Push(ev(2, 20))

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, int64(2), last.PointerID)
	assert.Equal(t, 2, h.Len())
}

func TestHistory_PushOverwritesOldest(t *testing.T) {
	h := NewHistory(3)
	for i := int64(1); i <= 5; i++ {
		h.Push(ev(i, float64(i)))
	}

	assert.Equal(t, 3, h.Len())

	// oldest two were overwritten
	oldest, ok := h.At(0)
	require.True(t, ok)
	assert.Equal(t, int64(3), oldest.PointerID)

	newest, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, int64(5), newest.PointerID)
}

func TestHistory_EnqueueOverwritesNewest(t *testing.T) {
	h := NewHistory(3)
	h.Push(ev(1, 0))
	h.Push(ev(2, 0))
	h.Push(ev(3, 0))

	// buffer full: inserting at the front drops the newest
	h.Enqueue(ev(9, 0))

	assert.Equal(t, 3, h.Len())
	oldest, _ := h.At(0)
	assert.Equal(t, int64(9), oldest.PointerID)
	newest, _ := h.Last()
	assert.Equal(t, int64(2), newest.PointerID)
}

func TestHistory_PopAndShift(t *testing.T) {
	h := NewHistory(4)
	h.Push(ev(1, 0))
	h.Push(ev(2, 0))
	h.Push(ev(3, 0))

	newest, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(3), newest.PointerID)

	oldest, ok := h.Shift()
	require.True(t, ok)
	assert.Equal(t, int64(1), oldest.PointerID)

	assert.Equal(t, 1, h.Len())

	_, _ = h.Pop()
	_, ok = h.Pop()
	assert.False(t, ok, "pop on empty buffer")
	_, ok = h.Shift()
	assert.False(t, ok, "shift on empty buffer")
}

func TestHistory_GetClampsAndWrapsAround(t *testing.T) {
	h := NewHistory(3)
	for i := int64(1); i <= 5; i++ {
		h.Push(ev(i, 0))
	}
	// buffer now holds 3,4,5 with head in the middle of the backing array

	got := h.Get(-2, 10)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].PointerID)
	assert.Equal(t, int64(4), got[1].PointerID)
	assert.Equal(t, int64(5), got[2].PointerID)

	mid := h.Get(1, 2)
	require.Len(t, mid, 1)
	assert.Equal(t, int64(4), mid[0].PointerID)

	assert.Nil(t, h.Get(2, 2))
	assert.Nil(t, h.Get(3, 1))
}

func TestHistory_ToSlice(t *testing.T) {
	h := NewHistory(2)
	assert.Empty(t, h.ToSlice())

	h.Push(ev(1, 0))
	h.Push(ev(2, 0))
	h.Push(ev(3, 0))

	s := h.ToSlice()
	require.Len(t, s, 2)
	assert.Equal(t, int64(2), s[0].PointerID)
	assert.Equal(t, int64(3), s[1].PointerID)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryCapacity, NewHistory(0).Cap())
	assert.Equal(t, DefaultHistoryCapacity, NewHistory(-1).Cap())
}
