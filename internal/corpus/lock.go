package corpus

import "sync/atomic"

// rebuildLock is a non-blocking mutual exclusion guard for corpus rebuilds.
// A second rebuild attempted while one is running fails immediately rather
// than queueing.
type rebuildLock struct {
	held atomic.Int32
}

// TryAcquire attempts to take the lock without blocking.
func (l *rebuildLock) TryAcquire() bool {
	return l.held.CompareAndSwap(0, 1)
}

// Release frees the lock.
func (l *rebuildLock) Release() {
	l.held.Store(0)
}
