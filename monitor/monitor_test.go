package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/mlacs/internal/testutil"
)

func newTestMonitor(clock *testutil.ManualClock, optFns ...func(o *Options)) *Monitor {
	fns := append([]func(o *Options){func(o *Options) {
		o.Clock = clock
		o.Interval = time.Hour // ticks never fire; tests call Sample directly
	}}, optFns...)
	return New(fns...)
}

func TestSampleWithNoTrafficIsZero(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	snap := m.Sample()

	assert.Equal(t, 0.0, snap.MessagesPerSecond)
	assert.Equal(t, 0.0, snap.ErrorRate)
	assert.Equal(t, time.Duration(0), snap.AverageLatency)
	assert.Equal(t, uint64(0), snap.TotalMessages)
}

func TestErrorRateZeroWithoutErrors(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	for i := 0; i < 25; i++ {
		m.RecordMessageProcessed()
	}

	snap := m.Sample()
	assert.Equal(t, 0.0, snap.ErrorRate)
	assert.Equal(t, uint64(25), snap.TotalMessages)
}

func TestErrorRateIsErrorsOverMessages(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	for i := 0; i < 8; i++ {
		m.RecordMessageProcessed()
	}
	m.RecordError()
	m.RecordError()

	snap := m.Sample()
	assert.InDelta(t, 0.25, snap.ErrorRate, 1e-9)
	assert.Equal(t, uint64(2), snap.TotalErrors)
}

func TestThroughputUsesSixtySecondWindow(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	for i := 0; i < 60; i++ {
		m.RecordMessageProcessed()
	}
	snap := m.Sample()
	assert.InDelta(t, 1.0, snap.MessagesPerSecond, 1e-9)

	// Outside the 60s window the messages stop counting toward throughput.
	clock.Advance(2 * time.Minute)
	snap = m.Sample()
	assert.Equal(t, 0.0, snap.MessagesPerSecond)
	// Still inside the 5 minute error window, so totals persist.
	assert.Equal(t, uint64(60), snap.TotalMessages)
}

func TestWindowsPruneOldEntries(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	m.RecordMessageProcessed()
	m.RecordError()

	clock.Advance(6 * time.Minute)
	m.RecordMessageProcessed()

	snap := m.Sample()
	// The old error fell out of the 5 minute window; one fresh message, zero errors.
	assert.Equal(t, 0.0, snap.ErrorRate)
	// Monotonic totals are unaffected by pruning.
	assert.Equal(t, uint64(2), snap.TotalMessages)
	assert.Equal(t, uint64(1), snap.TotalErrors)
}

func TestAverageLatency(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	m.RecordLatency(10 * time.Millisecond)
	m.RecordLatency(30 * time.Millisecond)

	snap := m.Sample()
	assert.Equal(t, 20*time.Millisecond, snap.AverageLatency)
}

func TestHistoryIsBoundedFIFO(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock, func(o *Options) { o.HistoryCap = 3 })

	var stamps []time.Time
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		snap := m.Sample()
		stamps = append(stamps, snap.Timestamp)
	}

	history := m.History()
	require.Len(t, history, 3)
	// Oldest evicted first: the surviving entries are the last three samples.
	assert.Equal(t, stamps[2], history[0].Timestamp)
	assert.Equal(t, stamps[4], history[2].Timestamp)
}

func TestCurrentReflectsLatestSample(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	_, ok := m.Current()
	assert.False(t, ok)

	first := m.Sample()
	clock.Advance(time.Second)
	second := m.Sample()

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, second.Timestamp, current.Timestamp)
	assert.NotEqual(t, first.Timestamp, current.Timestamp)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	id, ch := m.Subscribe()
	defer m.Unsubscribe(id)

	m.RecordMessageProcessed()
	sent := m.Sample()

	select {
	case got := <-ch:
		assert.Equal(t, sent.Timestamp, got.Timestamp)
		assert.Equal(t, sent.TotalMessages, got.TotalMessages)
	default:
		t.Fatal("expected a published snapshot")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	id, ch := m.Subscribe()
	m.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)

	// Sampling after unsubscribe must not panic on the closed channel.
	m.Sample()
}

func TestUnsubscribeDuringSamplingDoesNotPanic(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			m.Sample()
		}
	}()

	// Subscriber churn concurrent with sampling: a close landing between a
	// snapshot publish and its channel lookup must never crash the sampler.
	for i := 0; i < 500; i++ {
		id, _ := m.Subscribe()
		m.Unsubscribe(id)
	}
	<-done
}

func TestStartIsIdempotent(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	m.Start()
	m.Start()
	assert.True(t, m.Running())

	m.Stop()
	m.Stop()
	assert.False(t, m.Running())
}

func TestUptimeGrowsFromStart(t *testing.T) {
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	m := newTestMonitor(clock)

	m.Start()
	defer m.Stop()
	clock.Advance(90 * time.Second)

	snap := m.Sample()
	assert.Equal(t, 90*time.Second, snap.Uptime)
}
