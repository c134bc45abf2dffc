package locker

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redsync/redsync/v4"
)

var ErrLockTimeout = errors.New("lock not acquired")

// Locker hands out exclusive sections keyed by name. The returned release
// function is safe to call more than once.
type Locker interface {
	Obtain(ctx context.Context, key string) (func(), error)
}

type Redsync struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsync(rs *redsync.Redsync, expiry time.Duration) *Redsync {
	return &Redsync{rs, expiry}
}

func (l *Redsync) Obtain(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(64),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "obtain %s", key), ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			//nolint:errcheck
			mutex.Unlock()
		})
	}, nil
}

type Local struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: map[string]*localLock{}}
}

func (l *Local) Obtain(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lk)
		return nil, errors.Mark(errors.Wrapf(ctx.Err(), "obtain %s", key), ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lk.ch
			l.release(key, lk)
		})
	}, nil
}

func (l *Local) release(key string, lk *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}
