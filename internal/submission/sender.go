package submission

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
)

// Sender owns a single submission: the draft being composed, its lifecycle
// state, and the strategy used to validate and deliver it.
//
// A Sender expects one owner to edit and send. Transport completions may
// arrive from any goroutine; transitions are queued and handed to the
// observer one at a time, in order, without holding the lock, so the
// observer may call State from inside StateChanged.
type Sender[P any, R message.Message] struct {
	strategy Strategy[P, R]

	mu       sync.Mutex
	observer Observer
	draft    message.Draft
	state    State // last state handed to the observer
	head     State // state once every queued transition is delivered
	queue    []transition
	draining bool
}

// New builds a Sender for draft. The initial state is Invalid or Ready
// depending on the draft; no observer is notified.
func New[P any, R message.Message](strategy Strategy[P, R], draft message.Draft) *Sender[P, R] {
	if strategy.validate == nil || strategy.transport == nil {
		panic("submission: strategy must be built by TextStrategy or ImageStrategy with a non-nil transport")
	}

	s := &Sender[P, R]{strategy: strategy, draft: draft}
	s.state, _, _ = s.evaluate()
	s.head = s.state
	return s
}

// Kind returns the kind of message this sender submits.
func (s *Sender[P, R]) Kind() message.Kind { return s.strategy.kind }

// SetObserver registers o as the observer, replacing any previous one.
func (s *Sender[P, R]) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// State returns the current state.
func (s *Sender[P, R]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft.
func (s *Sender[P, R]) Draft() message.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}

// UpdateDraft replaces the draft and re-validates it.
func (s *Sender[P, R]) UpdateDraft(d message.Draft) error {
	return s.edit(func(message.Draft) message.Draft { return d })
}

// SetText replaces the draft's text.
func (s *Sender[P, R]) SetText(text string) error {
	return s.edit(func(d message.Draft) message.Draft { return d.WithText(text) })
}

// ClearText removes the draft's text.
func (s *Sender[P, R]) ClearText() error {
	return s.edit(message.Draft.WithoutText)
}

// SetImage attaches img to the draft, replacing any previous image.
func (s *Sender[P, R]) SetImage(img message.ImageRef) error {
	return s.edit(func(d message.Draft) message.Draft { return d.WithImage(img) })
}

// ClearImage removes the draft's image.
func (s *Sender[P, R]) ClearImage() error {
	return s.edit(message.Draft.WithoutImage)
}

// Send validates the draft and, if it passes, hands the payload to the
// transport. An invalid draft moves the sender to Invalid without touching
// the transport. The transport is only invoked once Sending has been
// delivered to the observer; when Send is called from inside StateChanged
// that happens right after the current notification returns. Send only
// fails with ErrSubmissionInFlight.
func (s *Sender[P, R]) Send(ctx context.Context) error {
	s.mu.Lock()
	if _, busy := s.head.(Sending); busy {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}

	next, payload, ok := s.evaluate()
	if !ok {
		s.commitLocked(next, nil)
		return nil
	}

	done := s.completion()
	s.commitLocked(Sending{}, func() {
		logutil.Debugf("%s submission: handing payload to transport", s.strategy.kind)
		s.strategy.transport.Send(ctx, payload, done)
	})
	return nil
}

func (s *Sender[P, R]) edit(change func(message.Draft) message.Draft) error {
	s.mu.Lock()
	if _, busy := s.head.(Sending); busy {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}

	s.draft = change(s.draft)
	next, _, _ := s.evaluate()
	s.commitLocked(next, nil)
	return nil
}

func (s *Sender[P, R]) evaluate() (State, P, bool) {
	payload, err := s.strategy.validate(s.draft)
	if err != nil {
		return Invalid{Reason: err}, payload, false
	}
	return Ready{}, payload, true
}

func (s *Sender[P, R]) completion() func(R, error) {
	var called atomic.Bool
	return func(resp R, err error) {
		if !called.CompareAndSwap(false, true) {
			logutil.Warnf("%s submission: ignoring duplicate transport completion", s.strategy.kind)
			return
		}

		var next State = Sent{Response: resp}
		if err != nil {
			next = ConnectionFailed{Err: err}
		}

		s.mu.Lock()
		s.commitLocked(next, nil)
	}
}

// commitLocked queues next and, unless another goroutine is already
// delivering, delivers every queued state in order. after, if set, runs once
// next has been delivered. Must be called with s.mu held; returns with it
// released.
func (s *Sender[P, R]) commitLocked(next State, after func()) {
	s.head = next
	s.queue = append(s.queue, transition{state: next, after: after})
	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true
	s.mu.Unlock()
	s.drain()
}

// resume delivers transitions left behind by a panicking observer.
func (s *Sender[P, R]) resume() {
	s.mu.Lock()
	if s.draining || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()
	s.drain()
}

// drain must only run while s.draining is set by the caller.
func (s *Sender[P, R]) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.draining = false
			pending := len(s.queue) > 0
			s.mu.Unlock()
			if pending {
				go s.resume()
			}
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.state = t.state
		observer := s.observer
		s.mu.Unlock()

		logutil.Debugf("%s submission: %s", s.strategy.kind, t.state)
		s.deliver(observer, t)
	}
}

func (s *Sender[P, R]) deliver(observer Observer, t transition) {
	if t.after != nil {
		defer t.after()
	}
	if observer != nil {
		observer.StateChanged()
	}
}

type transition struct {
	state State
	after func()
}
