package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	payload := Payload{"task": String("categorize-transactions")}
	msg := NewMessage("agent-a", "agent-b", MessageTypeTask, payload, PriorityHigh)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "agent-a", msg.SenderID)
	assert.Equal(t, "agent-b", msg.ReceiverID)
	assert.Equal(t, MessageTypeTask, msg.Type)
	assert.Equal(t, PriorityHigh, msg.Priority)
	assert.Equal(t, 0, msg.Attempts)
	assert.WithinDuration(t, time.Now().UTC(), msg.Timestamp, time.Second)
}

func TestMessageIDsAreUnique(t *testing.T) {
	m1 := NewHeartbeatMessage("a", "b")
	m2 := NewHeartbeatMessage("a", "b")
	assert.NotEqual(t, m1.ID, m2.ID)
}

func TestReaddressPreservesContentWithFreshIdentity(t *testing.T) {
	orig := NewTaskMessage("sender", "original", Payload{"n": Int(42)})
	copy := orig.Readdress("other")

	assert.NotEqual(t, orig.ID, copy.ID)
	assert.Equal(t, "other", copy.ReceiverID)
	assert.Equal(t, orig.SenderID, copy.SenderID)
	assert.Equal(t, orig.Type, copy.Type)
	assert.Equal(t, orig.Priority, copy.Priority)
	assert.Equal(t, orig.Payload, copy.Payload)
}

func TestPriorityOrdering(t *testing.T) {
	assert.True(t, PriorityLow < PriorityNormal)
	assert.True(t, PriorityNormal < PriorityHigh)
	assert.True(t, PriorityHigh < PriorityCritical)
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "low", PriorityLow.String())
	assert.Equal(t, "critical", PriorityCritical.String())
	assert.Equal(t, "unknown", Priority(99).String())
}

func TestChannelParticipants(t *testing.T) {
	ch := NewChannel("budget-review", []string{"a", "b"})

	require.NotEmpty(t, ch.ID)
	assert.True(t, ch.HasParticipant("a"))
	assert.False(t, ch.HasParticipant("c"))
	assert.Equal(t, ch.CreatedAt, ch.LastActivity)
}

func TestChannelCloneIsIndependent(t *testing.T) {
	ch := NewChannel("review", []string{"a", "b"})
	cp := ch.Clone()
	cp.Participants[0] = "mutated"

	assert.Equal(t, "a", ch.Participants[0])
}
