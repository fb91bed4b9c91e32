package ssd1306fx

import (
	"context"
	"errors"
	"io"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Input is the confirm source polled by the Gate.
//
// Stream sources (serial bytes, key presses) report an event while anything is
// buffered; level sources (a button on a GPIO) report an event while the pin
// is at its active level.
type Input interface {
	// HasEvent reports whether an event is pending. It must not block.
	HasEvent() bool
	// Consume drops one pending event.
	Consume()
	// Clear drops every pending event.
	Clear()
}

// QueueInput is an in-memory stream Input. It is safe to push from another
// goroutine while a Gate polls it.
type QueueInput struct {
	mu      sync.Mutex
	pending int
}

// NewQueueInput returns an empty QueueInput.
func NewQueueInput() *QueueInput {
	return &QueueInput{}
}

// Push queues one event.
func (q *QueueInput) Push() {
	q.mu.Lock()
	q.pending++
	q.mu.Unlock()
}

// Feed queues one event per byte read from r until r is exhausted or ctx is
// done. It blocks, so it is normally run on its own goroutine.
func (q *QueueInput) Feed(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			q.mu.Lock()
			q.pending += n
			q.mu.Unlock()
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// HasEvent reports whether a fed event is waiting.
func (q *QueueInput) HasEvent() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending > 0
}

// Consume drops one waiting event.
func (q *QueueInput) Consume() {
	q.mu.Lock()
	if q.pending > 0 {
		q.pending--
	}
	q.mu.Unlock()
}

// Clear drops every waiting event.
func (q *QueueInput) Clear() {
	q.mu.Lock()
	q.pending = 0
	q.mu.Unlock()
}

// PinInput is a level Input over a GPIO pin, typically a push button.
//
// A press only counts once the pin has been seen at the inactive level since
// the last Clear or Consume, so a button still held from a previous confirm
// does not skip the next one.
type PinInput struct {
	pin    gpio.PinIn
	active gpio.Level
	armed  bool
}

// NewPinInput returns an Input that fires while pin reads active. The pin must
// already be configured as an input (see gpio.PinIn.In).
func NewPinInput(pin gpio.PinIn, active gpio.Level) *PinInput {
	return &PinInput{pin: pin, active: active}
}

// HasEvent reports whether the pin reads active after having been released.
func (p *PinInput) HasEvent() bool {
	if p.pin.Read() != p.active {
		p.armed = true
		return false
	}
	return p.armed
}

// Consume disarms the pin until it is released again.
func (p *PinInput) Consume() {
	p.armed = false
}

// Clear disarms the pin until it is released again.
func (p *PinInput) Clear() {
	p.armed = false
}
