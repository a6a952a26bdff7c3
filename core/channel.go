package core

import "time"

// Channel is a named multi-party grouping of agents intended for group
// messaging. Participant ids are validated against the routing table once at
// creation time; later membership changes of the underlying agents are not
// re-validated.
type Channel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// NewChannel creates a channel with a fresh id. CreatedAt and LastActivity
// start at the same instant.
func NewChannel(name string, participants []string) Channel {
	now := time.Now().UTC()
	return Channel{
		ID:           NewID(),
		Name:         name,
		Participants: append([]string(nil), participants...),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// HasParticipant reports whether the given agent id is a channel member.
func (c Channel) HasParticipant(agentID string) bool {
	for _, p := range c.Participants {
		if p == agentID {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the channel, preventing external
// mutation of the participants slice held by the registry.
func (c Channel) Clone() Channel {
	cp := c
	cp.Participants = append([]string(nil), c.Participants...)
	return cp
}
