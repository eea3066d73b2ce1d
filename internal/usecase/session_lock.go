package usecase

import (
	"context"
	"sync"
)

// sessionLocks - one lock per session id, held from reading a session to storing it back.
// Entries are dropped once nobody holds or waits for them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	held chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock - blocks until the session is free or ctx is done. The returned func releases it.
func (that *sessionLocks) lock(ctx context.Context, id string) (func(), error) {
	that.mu.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{held: make(chan struct{}, 1)}
		that.locks[id] = l
	}
	l.refs++
	that.mu.Unlock()

	select {
	case l.held <- struct{}{}:
		return func() {
			<-l.held
			that.release(id, l)
		}, nil
	case <-ctx.Done():
		that.release(id, l)
		return nil, ctx.Err()
	}
}

func (that *sessionLocks) release(id string, l *sessionLock) {
	that.mu.Lock()
	defer that.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(that.locks, id)
	}
}

func (that *sessionLocks) len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}
