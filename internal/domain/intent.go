package domain

import (
	"encoding/json"
	"time"
)

// IntentAction is the tagged-union discriminator of a pending mutation.
type IntentAction string

const (
	IntentCreate IntentAction = "create"
	IntentUpdate IntentAction = "update"
	IntentDelete IntentAction = "delete"
	IntentToggle IntentAction = "toggle"
)

func (a IntentAction) Valid() bool {
	switch a {
	case IntentCreate, IntentUpdate, IntentDelete, IntentToggle:
		return true
	}
	return false
}

// Capability returns the action part of the codename required to raise or
// confirm an intent with this action.
func (a IntentAction) Capability() string {
	switch a {
	case IntentCreate:
		return ActionAdd
	case IntentDelete:
		return ActionDelete
	default:
		return ActionChange
	}
}

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentConfirmed IntentStatus = "confirmed"
	IntentCancelled IntentStatus = "cancelled"
)

// Intent is a transient, unconfirmed description of a mutation. It is held
// only until confirmed or cancelled, never persisted to the database.
type Intent struct {
	ID        string          `json:"id"`
	Resource  string          `json:"resource"`
	Action    IntentAction    `json:"action"`
	TargetID  uint            `json:"target_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ActorID   uint            `json:"actor_id"`
	GroupID   uint            `json:"group_id"`
	Status    IntentStatus    `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (i *Intent) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
