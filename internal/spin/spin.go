// Package spin turns "land on slice i" into a forward rotation and walks an
// animation driver through it.
//
// The controller is a two-state machine, Idle -> Running -> Idle. A request
// that arrives while Running, or against an empty wheel, is dropped: nothing
// is queued, no error is returned and no listener method fires. Callers that
// care can check IsRunning first.
//
// All methods except Rotation and IsRunning must be called from one
// goroutine, the same one the driver delivers its callbacks on.
package spin

import (
	"errors"
	"fmt"
	"luckywheel/internal/anim"
	"luckywheel/internal/wheel"
	"math"
	"sync/atomic"
	"time"
)

const (
	DefaultRounds   = 8
	DefaultDuration = 5000 * time.Millisecond
)

var ErrInvalidRounds = errors.New("rounds must not be negative")

// Listener observes spin lifecycle events.
type Listener interface {
	OnRotateStart()
	OnRotateEnd(index int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Start func()
	End   func(index int)
}

func (l ListenerFuncs) OnRotateStart() {
	if l.Start != nil {
		l.Start()
	}
}

func (l ListenerFuncs) OnRotateEnd(index int) {
	if l.End != nil {
		l.End(index)
	}
}

// Driver plays an animation and calls back on start and completion.
type Driver interface {
	Animate(a anim.Animation) anim.Handle
}

// Request is a single accepted spin.
type Request struct {
	Index    int
	From     float64
	To       float64
	Rounds   int
	Duration time.Duration
	Easing   anim.Easing
}

type Option func(*Request)

func WithRounds(n int) Option {
	return func(r *Request) { r.Rounds = n }
}

func WithDuration(d time.Duration) Option {
	return func(r *Request) { r.Duration = d }
}

func WithEasing(e anim.Easing) Option {
	return func(r *Request) { r.Easing = e }
}

type Controller struct {
	model  *wheel.Model
	driver Driver

	listener Listener
	rounds   int
	duration time.Duration
	easing   anim.Easing

	rotation atomic.Uint64
	running  atomic.Bool

	pending *Request
	handle  anim.Handle
}

func New(model *wheel.Model, driver Driver) *Controller {
	return &Controller{
		model:    model,
		driver:   driver,
		rounds:   DefaultRounds,
		duration: DefaultDuration,
		easing:   anim.Decelerate,
	}
}

func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

func (c *Controller) SetRounds(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRounds, n)
	}
	c.rounds = n
	return nil
}

func (c *Controller) Rounds() int {
	return c.rounds
}

func (c *Controller) SetDuration(d time.Duration) {
	c.duration = d
}

func (c *Controller) SetEasing(e anim.Easing) {
	if e == nil {
		e = anim.Decelerate
	}
	c.easing = e
}

// Rotation is the committed rotation in degrees: the pre-spin value while a
// spin is running, the landed value after. It is not wrapped into [0,360).
func (c *Controller) Rotation() float64 {
	return math.Float64frombits(c.rotation.Load())
}

// SetRotation moves the committed rotation while idle, e.g. to restore a
// wheel position. It is ignored while running.
func (c *Controller) SetRotation(deg float64) {
	if c.running.Load() {
		return
	}
	c.storeRotation(deg)
}

func (c *Controller) IsRunning() bool {
	return c.running.Load()
}

// Pending returns the spin in flight, if any.
func (c *Controller) Pending() (Request, bool) {
	if c.pending == nil {
		return Request{}, false
	}
	return *c.pending, true
}

// RequestSpin starts a spin that lands on slice index. accepted is false
// when the request was dropped (already running or empty wheel) or when err
// is non-nil. An out-of-range index returns wheel.ErrIndexOutOfRange.
func (c *Controller) RequestSpin(index int, opts ...Option) (accepted bool, err error) {
	if c.running.Load() || c.model.SliceCount() == 0 {
		return false, nil
	}

	req := Request{
		Index:    index,
		Rounds:   c.rounds,
		Duration: c.duration,
		Easing:   c.easing,
	}
	for _, opt := range opts {
		opt(&req)
	}
	if req.Rounds < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidRounds, req.Rounds)
	}

	center, err := c.model.SliceCenterAngle(index)
	if err != nil {
		return false, fmt.Errorf("spin to %d: %w", index, err)
	}

	req.From = c.Rotation()
	req.To = TargetRotation(req.From, center, req.Rounds)

	c.pending = &req
	c.running.Store(true)

	// Bind to this request so a late callback from a replaced or cancelled
	// animation cannot finish a newer spin.
	r := c.pending
	c.handle = c.driver.Animate(anim.Animation{
		From:       req.From,
		To:         req.To,
		Duration:   req.Duration,
		Easing:     req.Easing,
		OnStart:    func() { c.onStart(r) },
		OnComplete: func() { c.onComplete(r) },
	})

	return true, nil
}

// Cancel aborts a running spin. The committed rotation becomes wherever the
// driver last left the wheel, and OnRotateEnd does not fire.
func (c *Controller) Cancel() bool {
	if !c.running.Load() {
		return false
	}
	if c.handle != nil {
		c.handle.Cancel()
		c.storeRotation(c.handle.Value())
	}
	c.pending = nil
	c.handle = nil
	c.running.Store(false)
	return true
}

func (c *Controller) onStart(r *Request) {
	if c.pending != r {
		return
	}
	if c.listener != nil {
		c.listener.OnRotateStart()
	}
}

func (c *Controller) onComplete(r *Request) {
	if c.pending != r {
		return
	}
	c.storeRotation(r.To)
	c.pending = nil
	c.handle = nil
	c.running.Store(false)
	if c.listener != nil {
		c.listener.OnRotateEnd(r.Index)
	}
}

func (c *Controller) storeRotation(deg float64) {
	c.rotation.Store(math.Float64bits(deg))
}

// TargetRotation returns the rotation that turns the wheel forward from
// current by at least rounds full turns and stops with the angle center
// under the pointer at 0.
func TargetRotation(current, center float64, rounds int) float64 {
	cur := wheel.Normalize(current)
	delta := wheel.Normalize(360 - center - cur)
	return current + float64(rounds)*360 + delta
}
