package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/mlacs/core"
)

func newMsg(priority core.Priority) core.Message {
	return core.NewMessage("sender", "receiver", core.MessageTypeData, nil, priority)
}

func TestDequeueEmpty(t *testing.T) {
	q := New()

	_, ok := q.Dequeue()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Size())
}

func TestHigherPriorityDrainsFirst(t *testing.T) {
	q := New()
	low := newMsg(core.PriorityLow)
	high := newMsg(core.PriorityHigh)

	q.Enqueue(low)
	q.Enqueue(high)

	first, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, high.ID, first.ID)

	second, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, low.ID, second.ID)
}

func TestFullPriorityOrdering(t *testing.T) {
	q := New()
	normal := newMsg(core.PriorityNormal)
	critical := newMsg(core.PriorityCritical)
	low := newMsg(core.PriorityLow)
	high := newMsg(core.PriorityHigh)

	for _, m := range []core.Message{normal, critical, low, high} {
		q.Enqueue(m)
	}

	var order []string
	for {
		m, ok := q.Dequeue()
		if !ok {
			break
		}
		order = append(order, m.ID)
	}
	assert.Equal(t, []string{critical.ID, high.ID, normal.ID, low.ID}, order)
}

func TestFIFOWithinPriorityTier(t *testing.T) {
	q := New()
	m1 := newMsg(core.PriorityNormal)
	m2 := newMsg(core.PriorityNormal)
	m3 := newMsg(core.PriorityNormal)

	q.Enqueue(m1)
	q.Enqueue(m2)
	q.Enqueue(m3)

	for _, want := range []string{m1.ID, m2.ID, m3.ID} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.ID)
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New()
	msg := newMsg(core.PriorityNormal)
	q.Enqueue(msg)

	peeked, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, msg.ID, peeked.ID)
	assert.Equal(t, 1, q.Size())

	dequeued, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, msg.ID, dequeued.ID)
	assert.Equal(t, 0, q.Size())
}

func TestClear(t *testing.T) {
	q := New()
	q.Enqueue(newMsg(core.PriorityLow))
	q.Enqueue(newMsg(core.PriorityHigh))

	q.Clear()

	assert.Equal(t, 0, q.Size())
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestConcurrentEnqueueDequeue(t *testing.T) {
	q := New()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(newMsg(core.Priority(i % 4)))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Size())

	// Drain and verify priorities never increase.
	prev := core.PriorityCritical
	for {
		m, ok := q.Dequeue()
		if !ok {
			break
		}
		assert.LessOrEqual(t, m.Priority, prev)
		prev = m.Priority
	}
}
