package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/mlacs/core"
)

func TestValidateAgentAuthorizes(t *testing.T) {
	m := New(LevelStandard)

	require.NoError(t, m.ValidateAgent("agent-a"))
	assert.True(t, m.IsAuthorized("agent-a"))

	events := m.EventsByType(EventAgentValidated)
	require.Len(t, events, 1)
	assert.Equal(t, SeverityInfo, events[0].Severity)
}

func TestValidateBlockedAgentFails(t *testing.T) {
	m := New(LevelStandard)
	m.BlockAgent("intruder")

	err := m.ValidateAgent("intruder")
	require.Error(t, err)

	var violation *core.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Reason, "intruder")
	assert.False(t, m.IsAuthorized("intruder"))

	require.Len(t, m.EventsByType(EventUnauthorizedAccess), 1)
}

func TestBlockRevokesAuthorization(t *testing.T) {
	m := New(LevelStandard)
	require.NoError(t, m.ValidateAgent("agent-a"))

	m.BlockAgent("agent-a")

	assert.False(t, m.IsAuthorized("agent-a"))
	assert.True(t, m.IsBlocked("agent-a"))
	assert.Error(t, m.ValidateAgent("agent-a"))
}

func TestUnblockDoesNotReauthorize(t *testing.T) {
	m := New(LevelStandard)
	require.NoError(t, m.ValidateAgent("agent-a"))
	m.BlockAgent("agent-a")

	m.UnblockAgent("agent-a")

	assert.False(t, m.IsBlocked("agent-a"))
	assert.False(t, m.IsAuthorized("agent-a"))

	// Re-validation re-grants authorization: the grant is monotonic.
	require.NoError(t, m.ValidateAgent("agent-a"))
	assert.True(t, m.IsAuthorized("agent-a"))
}

func TestValidateMessageRequiresAuthorizedSender(t *testing.T) {
	m := New(LevelStandard)
	msg := core.NewMessage("stranger", "agent-b", core.MessageTypeData, nil, core.PriorityNormal)

	err := m.ValidateMessage(msg)
	require.Error(t, err)

	var violation *core.SecurityViolationError
	assert.ErrorAs(t, err, &violation)
	require.Len(t, m.EventsByType(EventUnauthorizedMessage), 1)
}

func TestValidateAgentThenMessageNeverFailsAuthorization(t *testing.T) {
	m := New(LevelStandard)
	require.NoError(t, m.ValidateAgent("agent-a"))

	msg := core.NewMessage("agent-a", "agent-b", core.MessageTypeTask, core.Payload{
		"desc": core.String("reconcile accounts"),
	}, core.PriorityHigh)

	require.NoError(t, m.ValidateMessage(msg))
	require.Len(t, m.EventsByType(EventMessageValidated), 1)
}

func TestStandardLevelRejectsBlocklistedContent(t *testing.T) {
	m := New(LevelStandard)
	require.NoError(t, m.ValidateAgent("agent-a"))

	for _, banned := range []string{"malicious", "attack", "Exploit", "INJECTION"} {
		msg := core.NewMessage("agent-a", "agent-b", core.MessageTypeData, core.Payload{
			"note": core.String("contains " + banned + " content"),
		}, core.PriorityNormal)

		err := m.ValidateMessage(msg)
		require.Error(t, err, "expected rejection for %q", banned)

		var violation *core.SecurityViolationError
		assert.ErrorAs(t, err, &violation)
	}
}

func TestMinimalLevelSkipsContentChecks(t *testing.T) {
	m := New(LevelMinimal)
	require.NoError(t, m.ValidateAgent("agent-a"))

	msg := core.NewMessage("agent-a", "agent-b", core.MessageTypeData, core.Payload{
		"note": core.String("attack payload"),
	}, core.PriorityNormal)

	assert.NoError(t, m.ValidateMessage(msg))
}

func TestEnhancedLevelFlagsOversizedPayloadWithoutRejecting(t *testing.T) {
	m := New(LevelEnhanced)
	require.NoError(t, m.ValidateAgent("agent-a"))

	msg := core.NewMessage("agent-a", "agent-b", core.MessageTypeData, core.Payload{
		"blob": core.String(strings.Repeat("x", maxPayloadBytes+1)),
	}, core.PriorityNormal)

	require.NoError(t, m.ValidateMessage(msg))
	require.Len(t, m.EventsByType(EventSuspiciousActivity), 1)
	assert.Len(t, m.EventsByType(EventMessageValidated), 1)
}

func TestMaximumLevelAcceptsCleanTraffic(t *testing.T) {
	// The signature hook is a no-op placeholder; maximum behaves as enhanced.
	m := New(LevelMaximum)
	require.NoError(t, m.ValidateAgent("agent-a"))

	msg := core.NewMessage("agent-a", "agent-b", core.MessageTypeTask, core.Payload{
		"desc": core.String("monthly report"),
	}, core.PriorityNormal)

	assert.NoError(t, m.ValidateMessage(msg))
}

func TestEventLogIsBounded(t *testing.T) {
	m := New(LevelMinimal, func(o *Options) { o.MaxEvents = 5 })

	for i := 0; i < 10; i++ {
		require.NoError(t, m.ValidateAgent("agent-a"))
	}

	events := m.Events()
	assert.Len(t, events, 5)
}

func TestRejectionIsRaisedAndLogged(t *testing.T) {
	// A rejection produces both a returned error and an independent audit
	// entry; neither substitutes for the other.
	m := New(LevelStandard)
	m.BlockAgent("agent-x")

	err := m.ValidateAgent("agent-x")
	require.Error(t, err)
	require.Len(t, m.EventsByType(EventUnauthorizedAccess), 1)
}

func TestLevelDecode(t *testing.T) {
	var l Level
	require.NoError(t, l.Decode("enhanced"))
	assert.Equal(t, LevelEnhanced, l)

	require.NoError(t, l.Decode(" Maximum "))
	assert.Equal(t, LevelMaximum, l)

	assert.Error(t, l.Decode("paranoid"))
}
