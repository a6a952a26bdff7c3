package testutil

import (
	"context"
	"sync"

	"github.com/finsuite/mlacs/core"
)

// RecorderAgent is a scripted core.Agent that records every delivered message
// and lifecycle transition. HandleErr, when set, is returned from every
// HandleMessage call.
type RecorderAgent struct {
	mu        sync.Mutex
	id        string
	info      core.AgentInfo
	handled   []core.Message
	active    bool
	HandleErr error
}

// NewRecorderAgent creates a recorder with a fresh id and the given name.
func NewRecorderAgent(name string) *RecorderAgent {
	return &RecorderAgent{
		id:   core.NewID(),
		info: core.AgentInfo{Name: name, Type: "recorder"},
	}
}

// ID returns the agent's stable identity.
func (a *RecorderAgent) ID() string { return a.id }

// Info returns the agent's identifying details.
func (a *RecorderAgent) Info() core.AgentInfo { return a.info }

// Activate marks the agent active.
func (a *RecorderAgent) Activate(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = true
	return nil
}

// Deactivate marks the agent inactive.
func (a *RecorderAgent) Deactivate(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	return nil
}

// HandleMessage records the message and returns HandleErr.
func (a *RecorderAgent) HandleMessage(_ context.Context, msg core.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handled = append(a.handled, msg)
	return a.HandleErr
}

// Handled returns a snapshot of every message delivered so far.
func (a *RecorderAgent) Handled() []core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]core.Message(nil), a.handled...)
}

// Active reports the current lifecycle state.
func (a *RecorderAgent) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}
