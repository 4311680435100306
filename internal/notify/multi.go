package notify

import (
	"luckywheel/internal/spin"
)

// Multi fans spin events out to several listeners, in order.
type Multi struct {
	listeners []spin.Listener
}

// NewMulti drops nil listeners.
func NewMulti(listeners ...spin.Listener) *Multi {
	m := &Multi{}
	for _, l := range listeners {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
	return m
}

// OnRotateStart implements spin.Listener.
func (m *Multi) OnRotateStart() {
	for _, l := range m.listeners {
		l.OnRotateStart()
	}
}

// OnRotateEnd implements spin.Listener.
func (m *Multi) OnRotateEnd(index int) {
	for _, l := range m.listeners {
		l.OnRotateEnd(index)
	}
}
