// Package keylock serializes work per key without holding a global lock.
package keylock

import "sync"

type entry struct {
	mtx  sync.Mutex
	refs int
}

// Locker hands out one mutex per key. Entries are dropped once no
// goroutine holds or waits on them.
type Locker[K comparable] struct {
	mtx   sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *Locker[K] {
	return &Locker[K]{locks: make(map[K]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (l *Locker[K]) Lock(key K) (unlock func()) {
	l.mtx.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mtx.Unlock()

	e.mtx.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mtx.Unlock()

			l.mtx.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.locks, key)
			}
			l.mtx.Unlock()
		})
	}
}

// Len reports how many keys are currently held or awaited.
func (l *Locker[K]) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.locks)
}
