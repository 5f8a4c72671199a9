package domain

import (
	"context"
	"time"
)

// Session is one conversation and the order it has accumulated so far.
type Session struct {
	ID        string     `json:"sessionId"`
	Order     OrderSlots `json:"order"`
	Turns     int        `json:"turns"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SessionRepository owns per-conversation order state.
type SessionRepository interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Update runs fn on a copy of the session's order while holding the
	// session exclusively. The copy is committed only when fn returns nil.
	Update(ctx context.Context, id string, fn func(order *OrderSlots) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// DictionaryProvider hands out the currently active keyword dictionary.
type DictionaryProvider interface {
	Current() (*Dictionary, error)
}
