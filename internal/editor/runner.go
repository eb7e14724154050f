// Package editor runs the engine on a single goroutine, merging intents
// from keys, the init list and remote controllers into one ordered queue.
package editor

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"PixelBoard/internal/state"
)

var (
	// ErrQuit is returned by Run after a quit intent was applied.
	ErrQuit = errors.New("quit requested")

	// ErrStopped indicates that the runner is no longer accepting intents.
	ErrStopped = errors.New("editor stopped")
)

// Sink receives the outcome of every applied intent, in order.
type Sink interface {
	Outcome(out state.Outcome) error
}

type request struct {
	in    state.Intent
	reply chan result
}

type result struct {
	out state.Outcome
	err error
}

// Runner owns an Engine. All engine access happens on the goroutine
// executing Run.
type Runner struct {
	engine   *state.Engine
	requests chan request
	done     chan struct{}

	sink      Sink
	launcher  Launcher
	onOutcome []func(state.Outcome)
	onScene   func(state.Scene)

	width, height atomic.Int32
}

type Option func(*Runner)

// WithSink records every outcome, typically to a record.Writer.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithLauncher(l Launcher) Option {
	return func(r *Runner) { r.launcher = l }
}

// OnOutcome registers fn to observe every successful intent.
func OnOutcome(fn func(state.Outcome)) Option {
	return func(r *Runner) { r.onOutcome = append(r.onOutcome, fn) }
}

// OnScene registers fn to receive a fresh scene after every change. It is
// called on the runner goroutine and must not block.
func OnScene(fn func(state.Scene)) Option {
	return func(r *Runner) { r.onScene = fn }
}

// WithViewport sets the initial scene window size in canvas pixels.
func WithViewport(width, height int) Option {
	return func(r *Runner) { r.SetViewport(width, height) }
}

func New(engine *state.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		requests: make(chan request, 256),
		done:     make(chan struct{}),
		launcher: ExecLauncher{},
	}
	r.SetViewport(64, 48)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetViewport changes the scene window size. Safe from any goroutine.
func (r *Runner) SetViewport(width, height int) {
	r.width.Store(int32(max(width, 1)))
	r.height.Store(int32(max(height, 1)))
}

// Submit queues in and waits until it has been applied.
func (r *Runner) Submit(ctx context.Context, in state.Intent) (state.Outcome, error) {
	req := request{in: in, reply: make(chan result, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return state.Outcome{}, ErrStopped
	case <-ctx.Done():
		return state.Outcome{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.out, res.err
	case <-r.done:
		return state.Outcome{}, ErrStopped
	case <-ctx.Done():
		return state.Outcome{}, ctx.Err()
	}
}

// Post queues in without waiting for the result. Failures are logged.
func (r *Runner) Post(in state.Intent) {
	select {
	case r.requests <- request{in: in}:
	case <-r.done:
	}
}

// Refresh asks for a fresh scene, for example after a viewport change.
// It never blocks; a refresh is dropped when the queue is full.
func (r *Runner) Refresh() {
	select {
	case r.requests <- request{}:
	default:
	}
}

// Run applies init, then serves queued intents and playback ticks until
// ctx is done or a quit intent arrives.
func (r *Runner) Run(ctx context.Context, init []state.Intent) error {
	defer close(r.done)

	pb := newPlayback()
	defer pb.stop()

	for _, in := range init {
		if out, _ := r.apply(ctx, in); out.Quit {
			return ErrQuit
		}
	}
	pb.sync(r.engine)
	r.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case req := <-r.requests:
			if req.in == nil {
				r.publish()
				continue
			}
			out, err := r.apply(ctx, req.in)
			if req.reply != nil {
				req.reply <- result{out: out, err: err}
			}
			if out.Quit {
				return ErrQuit
			}
			pb.sync(r.engine)

		case now := <-pb.C():
			for range pb.due(now) {
				if !r.engine.Advance() {
					break
				}
			}
			pb.sync(r.engine)
			r.publish()
		}
	}
}

// apply runs one intent and fans its outcome out to the sink, observers,
// launcher and renderer. A sink failure is returned, but the change stays
// applied in memory.
func (r *Runner) apply(ctx context.Context, in state.Intent) (state.Outcome, error) {
	out, err := r.engine.Apply(in)
	if err != nil {
		log.Printf("[EDITOR] Intent '%s' failed: %v", in.Name(), err)
		return out, err
	}

	var sinkErr error
	if r.sink != nil {
		if sinkErr = r.sink.Outcome(out); sinkErr != nil {
			log.Printf("[EDITOR] Failed to record '%s': %v", in.Name(), sinkErr)
		}
	}
	for _, fn := range r.onOutcome {
		fn(out)
	}
	if out.External != nil && r.launcher != nil {
		if err := r.launcher.Launch(ctx, *out.External); err != nil {
			log.Printf("[EDITOR] External command failed: %v", err)
		}
	}
	if out.Quit {
		log.Println("[EDITOR] Quit requested")
	}
	r.publish()
	return out, sinkErr
}

func (r *Runner) publish() {
	if r.onScene == nil {
		return
	}
	window := r.engine.Window(int(r.width.Load()), int(r.height.Load()))
	r.onScene(r.engine.Scene(window))
}

// playback drives the engine clock with a ticker at the playback fps.
// Ticks the ticker drops are caught up from the wall clock.
type playback struct {
	ticker   *time.Ticker
	fps      uint8
	interval time.Duration
	last     time.Time
}

func newPlayback() *playback { return &playback{} }

// C is nil while nothing plays, so selecting on it blocks.
func (p *playback) C() <-chan time.Time {
	if p.ticker == nil {
		return nil
	}
	return p.ticker.C
}

func (p *playback) sync(e *state.Engine) {
	settings, playing := e.State().Timeline.Playback()
	settings.FPS = max(settings.FPS, 1)
	switch {
	case !playing:
		p.stop()
	case p.ticker == nil:
		p.start(settings.FPS, time.Now())
		p.ticker = time.NewTicker(p.interval)
	case p.fps != settings.FPS:
		p.start(settings.FPS, time.Now())
		p.ticker.Reset(p.interval)
	}
}

func (p *playback) start(fps uint8, now time.Time) {
	p.fps = fps
	p.interval = time.Second / time.Duration(fps)
	p.last = now
}

// due returns how many whole ticks elapsed since the last advance and
// moves the reference point forward by that many intervals.
func (p *playback) due(now time.Time) int {
	if p.interval <= 0 || now.Before(p.last) {
		return 0
	}
	n := int(now.Sub(p.last) / p.interval)
	p.last = p.last.Add(time.Duration(n) * p.interval)
	return n
}

func (p *playback) stop() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}
