package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SyncError reports a failed upsert.
type SyncError struct {
	Identity Identity
	Err      error
}

// ErrorHandler receives every failed upsert. It runs on a single goroutine.
type ErrorHandler func(SyncError)

// LogErrors is the default ErrorHandler.
func LogErrors(e SyncError) {
	logrus.WithFields(logrus.Fields{
		"userID": e.Identity.ID,
		"error":  e.Err,
	}).Warn("Failed to upsert identity into messaging provider")
}

// AsyncPublisher runs each upsert on its own goroutine with a timeout and
// funnels failures through an error channel into the ErrorHandler.
type AsyncPublisher struct {
	next    IdentitySyncer
	timeout time.Duration
	onError ErrorHandler

	errs    chan SyncError
	drained chan struct{}

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncPublisher starts the error-draining goroutine. A nil onError logs.
func NewAsyncPublisher(next IdentitySyncer, timeout time.Duration, onError ErrorHandler) *AsyncPublisher {
	if onError == nil {
		onError = LogErrors
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		onError: onError,
		errs:    make(chan SyncError, 64),
		drained: make(chan struct{}),
	}
	go p.drain()
	return p
}

func (p *AsyncPublisher) drain() {
	defer close(p.drained)
	for e := range p.errs {
		p.onError(e)
	}
}

// Submit schedules an upsert and returns immediately. After Close it is a no-op.
func (p *AsyncPublisher) Submit(identity Identity) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		logrus.WithField("userID", identity.ID).Warn("Identity publisher closed, dropping upsert")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if err := p.next.UpsertUser(ctx, identity); err != nil {
			p.errs <- SyncError{Identity: identity, Err: err}
		}
	}()
}

// Close waits for in-flight upserts and for all errors to be handled.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	close(p.errs)
	<-p.drained
}
