// Package anim plays rotation animations frame by frame.
//
// A Player has no goroutines and no clock of its own. The host advances it
// with timestamps, from a tea.Tick loop in the terminal app or from a
// synthetic clock when rendering GIF frames or running headless.
package anim

import (
	"math"
	"sync/atomic"
	"time"
)

// Animation describes one from -> to run.
type Animation struct {
	From     float64
	To       float64
	Duration time.Duration
	Easing   Easing

	// OnStart fires on the first frame. OnComplete fires on the frame that
	// reaches To. Each fires at most once, and never after Cancel.
	OnStart    func()
	OnComplete func()
}

// Handle refers to a started animation.
type Handle interface {
	// Cancel stops the animation without firing OnComplete. It reports
	// whether the animation was still active.
	Cancel() bool
	// Value is the most recent value the animation published.
	Value() float64
}

type Player struct {
	cur   *playback
	value atomic.Uint64
}

func NewPlayer() *Player {
	return &Player{}
}

type playback struct {
	p       *Player
	a       Animation
	start   time.Time
	started bool
	done    bool
}

// Animate starts a and returns its handle. An animation that is still
// active is dropped silently, without its completion callback.
func (p *Player) Animate(a Animation) Handle {
	if p.cur != nil {
		p.cur.done = true
	}
	if a.Easing == nil {
		a.Easing = Decelerate
	}
	pb := &playback{p: p, a: a}
	p.cur = pb
	p.store(a.From)
	return pb
}

// Active reports whether an animation is waiting for frames.
func (p *Player) Active() bool {
	return p.cur != nil
}

// Value returns the live value. Safe to call from any goroutine.
func (p *Player) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// Cancel stops the current animation, if any.
func (p *Player) Cancel() bool {
	if p.cur == nil {
		return false
	}
	return p.cur.Cancel()
}

// Advance moves the current animation to now and publishes the new value.
// done is true once no animation is active.
func (p *Player) Advance(now time.Time) (value float64, done bool) {
	pb := p.cur
	if pb == nil {
		return p.Value(), true
	}

	if !pb.started {
		pb.started = true
		pb.start = now
		if pb.a.OnStart != nil {
			pb.a.OnStart()
		}
		// OnStart may have cancelled or replaced us.
		if p.cur != pb {
			return p.Value(), p.cur == nil
		}
	}

	t := 1.0
	if pb.a.Duration > 0 {
		t = float64(now.Sub(pb.start)) / float64(pb.a.Duration)
	}

	if t >= 1 {
		p.store(pb.a.To)
		pb.done = true
		p.cur = nil
		if pb.a.OnComplete != nil {
			pb.a.OnComplete()
		}
		return pb.a.To, p.cur == nil
	}

	v := pb.a.From + (pb.a.To-pb.a.From)*pb.a.Easing(t)
	p.store(v)
	return v, false
}

// Drain runs the current animation to completion on a synthetic clock that
// starts at start and moves by step per frame. onFrame, if set, sees every
// published value including the final one. It returns the number of frames.
func (p *Player) Drain(start time.Time, step time.Duration, onFrame func(v float64)) int {
	if step <= 0 {
		step = time.Second / 60
	}
	frames := 0
	now := start
	for p.cur != nil {
		v, _ := p.Advance(now)
		frames++
		if onFrame != nil {
			onFrame(v)
		}
		now = now.Add(step)
	}
	return frames
}

func (p *Player) store(v float64) {
	p.value.Store(math.Float64bits(v))
}

func (pb *playback) Cancel() bool {
	if pb.done {
		return false
	}
	pb.done = true
	if pb.p.cur == pb {
		pb.p.cur = nil
	}
	return true
}

func (pb *playback) Value() float64 {
	return pb.p.Value()
}
