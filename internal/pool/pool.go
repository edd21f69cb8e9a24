// Package pool provides event reuse and timestamp parsing helpers
// shared by the parsers.
package pool

import (
	"sync"

	"github.com/procflow/procflow/internal/model"
)

// EventPool manages reusable Event structs to reduce allocations
// while streaming large logs.
type EventPool struct {
	pool sync.Pool
}

// NewEventPool creates a new event pool.
func NewEventPool() *EventPool {
	return &EventPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &model.Event{}
			},
		},
	}
}

// Get returns a cleared event from the pool.
func (p *EventPool) Get() *model.Event {
	e := p.pool.Get().(*model.Event)
	e.Reset()
	return e
}

// Put returns an event to the pool.
func (p *EventPool) Put(e *model.Event) {
	if e == nil {
		return
	}
	p.pool.Put(e)
}
