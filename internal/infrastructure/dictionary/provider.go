package dictionary

import (
	"sync/atomic"

	"github.com/orderlens/backend/internal/domain"
)

// Provider hands out the active dictionary. Dictionaries are immutable once
// built, so a reload swaps the whole value and in-flight turns keep the one
// they started with.
type Provider struct {
	current atomic.Pointer[domain.Dictionary]
}

// NewProvider creates a provider, optionally seeded with a dictionary.
func NewProvider(initial *domain.Dictionary) *Provider {
	p := &Provider{}
	if initial != nil {
		p.current.Store(initial)
	}
	return p
}

// Current returns the active dictionary.
func (p *Provider) Current() (*domain.Dictionary, error) {
	d := p.current.Load()
	if d == nil {
		return nil, domain.ErrDictionaryUnavailable
	}
	return d, nil
}

// Store makes d the active dictionary.
func (p *Provider) Store(d *domain.Dictionary) {
	p.current.Store(d)
}
