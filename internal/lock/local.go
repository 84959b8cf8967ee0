package lock

import (
	"context"
	"sync"
)

// Local is an in-process keyed mutex. Idle keys are dropped so the map stays small.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

func (l *Local) Acquire(ctx context.Context, keys ...string) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.lock(ctx, key); err != nil {
			l.unlockAll(held)
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlockAll(held) })
	}, nil
}

func (l *Local) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.drop(key, false)
		return ctx.Err()
	}
}

func (l *Local) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.drop(keys[i], true)
	}
}

func (l *Local) drop(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.slots[key]
	if held {
		<-s.ch
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
