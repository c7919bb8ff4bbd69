// Package lifecycle models a client-side request as a small state machine:
// a request starts loading, then either succeeds with data or fails with a
// message. One generic reducer serves every resource.
package lifecycle

import (
	"context"
	"sync"

	"github.com/cureconnect/cureconnect/pkg/apiclient"
)

// CancelledMessage is stored as the error when the caller's context ends
// before the response arrives.
const CancelledMessage = "request cancelled"

type Kind int

const (
	Request Kind = iota + 1
	Success
	Fail
	ClearErrors
	ClearMessages
)

func (k Kind) String() string {
	switch k {
	case Request:
		return "REQUEST"
	case Success:
		return "SUCCESS"
	case Fail:
		return "FAIL"
	case ClearErrors:
		return "CLEAR_ERRORS"
	case ClearMessages:
		return "CLEAR_MESSAGES"
	default:
		return "UNKNOWN"
	}
}

// Action is one event fed to Reduce. Payload is read on Success; Message is
// the error text on Fail and the optional server message on Success.
type Action[T any] struct {
	Kind    Kind
	Payload T
	Message string
}

// State is what a view renders for one resource.
type State[T any] struct {
	Loading bool
	Data    T
	Error   string
	Message string
	Success bool
}

// Reduce returns the state after a. It never mutates its input and ignores
// unknown kinds.
func Reduce[T any](s State[T], a Action[T]) State[T] {
	switch a.Kind {
	case Request:
		s.Loading = true
	case Success:
		s.Loading = false
		s.Data = a.Payload
		s.Error = ""
		s.Message = a.Message
		s.Success = true
	case Fail:
		s.Loading = false
		s.Error = a.Message
		s.Success = false
	case ClearErrors:
		s.Error = ""
	case ClearMessages:
		s.Message = ""
		s.Success = false
	}
	return s
}

// Store holds one State and notifies subscribers after every dispatch. It is
// safe for concurrent use.
type Store[T any] struct {
	mu     sync.Mutex
	state  State[T]
	nextID int
	subs   map[int]func(State[T])
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{state: State[T]{Data: initial}, subs: make(map[int]func(State[T]))}
}

func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and returns the new state. Subscribers run after the
// lock is released, in no particular order.
func (s *Store[T]) Dispatch(a Action[T]) State[T] {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	subs := make([]func(State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) ClearErrors() { s.Dispatch(Action[T]{Kind: ClearErrors}) }

func (s *Store[T]) ClearMessages() { s.Dispatch(Action[T]{Kind: ClearMessages}) }

// Run dispatches Request, makes exactly one call, and dispatches Success or
// Fail with apiclient.ErrorMessage(err, fallback). There is no retry.
//
// If ctx ends first, Fail is dispatched with CancelledMessage and Run
// returns ctx.Err(). The call keeps running and its outcome is still
// dispatched when it lands.
func Run[T any](ctx context.Context, store *Store[T], fallback string, call func(context.Context) (T, error)) (T, error) {
	store.Dispatch(Action[T]{Kind: Request})

	type result struct {
		data T
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := call(context.WithoutCancel(ctx))
		if err != nil {
			store.Dispatch(Action[T]{Kind: Fail, Message: apiclient.ErrorMessage(err, fallback)})
		} else {
			store.Dispatch(Action[T]{Kind: Success, Payload: data})
		}
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		store.Dispatch(Action[T]{Kind: Fail, Message: CancelledMessage})
		var zero T
		return zero, ctx.Err()
	}
}
