package chapter

import (
	"context"
	"log/slog"
	"sync"
)

// Request asks the queue to process one chapter. Text and HTML come from
// the chapter source; Done is invoked on the worker goroutine with the
// processed data.
type Request struct {
	Index int
	Text  string
	HTML  string
	Done  func(*Data)
}

// Queue processes chapters one at a time on a single worker, preserving
// order when the user navigates quickly. Rapid re-submissions for new
// chapters supersede a not-yet-started pending request; results always
// land in the cache.
type Queue struct {
	cache        *Cache
	wordsPerPage int

	mu      sync.Mutex
	pending *Request
	wake    chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewQueue starts the worker. Callers own the cache but must only touch it
// through the queue (or before Start/after Close).
func NewQueue(ctx context.Context, cache *Cache, wordsPerPage int) *Queue {
	ctx, cancel := context.WithCancel(ctx)
	q := &Queue{
		cache:        cache,
		wordsPerPage: wordsPerPage,
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		cancel:       cancel,
	}
	go q.run(ctx)
	return q
}

// Submit schedules a chapter for processing. A pending, not-yet-started
// request is replaced: only the latest navigation target matters.
func (q *Queue) Submit(req Request) {
	q.mu.Lock()
	q.pending = &req
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close waits for the worker to finish its current request and stop.
func (q *Queue) Close() {
	q.cancel()
	<-q.done
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			req := q.pending
			q.pending = nil
			q.mu.Unlock()
			if req == nil {
				break
			}

			data, ok := q.cache.Get(req.Index)
			if !ok {
				slog.Debug("processing chapter", "chapter", req.Index)
				data = Process(req.Text, req.HTML, q.wordsPerPage)
				q.cache.Put(req.Index, data)
				slog.Debug("chapter processed",
					"chapter", req.Index,
					"tokens", len(data.Tokens),
					"pages", len(data.Pages),
					"words", data.WordCount())
			}
			if req.Done != nil {
				req.Done(data)
			}
		}
	}
}
