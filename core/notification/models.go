package notification

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeAlert   = "alert"
)

var Types = []string{TypeInfo, TypeSuccess, TypeWarning, TypeAlert}

type Notification struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Time      time.Time `json:"time" db:"time"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Summary struct {
	Total  int            `json:"total"`
	Unread int            `json:"unread"`
	Read   int            `json:"read"`
	ByType map[string]int `json:"by_type"`
}

type NewNotification struct {
	Type    string `json:"type" validate:"required,oneof=info success warning alert"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message"`
}

func (nn *NewNotification) Validate() error {
	nn.Type = core.CleanString(nn.Type, true /* lower */)
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	if nn.Type == "" {
		nn.Type = TypeInfo
	}
	return core.Validate.Struct(nn)
}

type UpdateNotification struct {
	Type    string `json:"type" validate:"omitempty,oneof=info success warning alert"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    *bool  `json:"read"`
}

func (un *UpdateNotification) Validate() error {
	un.Type = core.CleanString(un.Type, true /* lower */)
	un.Title = core.CleanString(un.Title)
	un.Message = core.CleanString(un.Message)
	return core.Validate.Struct(un)
}

func (un UpdateNotification) apply(n *Notification) {
	if un.Type != "" {
		n.Type = un.Type
	}
	if un.Title != "" {
		n.Title = un.Title
	}
	if un.Message != "" {
		n.Message = un.Message
	}
	if un.Read != nil {
		n.Read = *un.Read
	}
}

// Event actions
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionRestored = "restored"
)

// Event describes a change of the notification collection, pushed to live clients.
type Event struct {
	Action        string         `json:"action"`
	Notifications []Notification `json:"notifications,omitempty"`
	IDs           []string       `json:"ids,omitempty"`
}

// Publisher pushes events to whoever listens (websocket clients).
type Publisher interface {
	Publish(evt Event)
}
