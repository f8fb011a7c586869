package reql

import (
	"context"
	"sync"
	"time"

	p "github.com/reql-go/reql/ql2"
)

// FetchMode governs when a Result eagerly requests the next batch of a
// streamed sequence versus waiting for the caller to drain the current
// buffer (spec.md §4.7).
type FetchMode int

const (
	// FetchAggressive always issues CONTINUE as soon as a batch arrives,
	// regardless of how much of the previous batch is still buffered.
	FetchAggressive FetchMode = iota
	// FetchPreemptiveHalf issues CONTINUE once the buffer drains to at most
	// half of the previous batch size.
	FetchPreemptiveHalf
	FetchPreemptiveThird
	FetchPreemptiveFourth
	FetchPreemptiveFifth
	FetchPreemptiveSixth
	FetchPreemptiveSeventh
	FetchPreemptiveEighth
	// FetchLazy never issues CONTINUE until the buffer is fully drained.
	FetchLazy
)

// shouldContinue reports whether, given buffered items remaining and the
// size of the last batch received, the policy calls for issuing CONTINUE
// now (spec.md §4.7's fetch-mode table).
func (m FetchMode) shouldContinue(buffered, lastBatch int) bool {
	switch m {
	case FetchAggressive:
		return true
	case FetchLazy:
		return buffered == 0
	}

	var divisor int
	switch m {
	case FetchPreemptiveHalf:
		divisor = 2
	case FetchPreemptiveThird:
		divisor = 3
	case FetchPreemptiveFourth:
		divisor = 4
	case FetchPreemptiveFifth:
		divisor = 5
	case FetchPreemptiveSixth:
		divisor = 6
	case FetchPreemptiveSeventh:
		divisor = 7
	case FetchPreemptiveEighth:
		divisor = 8
	default:
		return true
	}
	return buffered <= lastBatch/divisor
}

// resultState tracks where a Result sits in its lifecycle.
type resultState int

const (
	resultOpen resultState = iota
	resultDone
	resultErrored
	resultCancelled
)

// Result is the cursor over a query's output: an atom, a complete sequence,
// or a partial sequence/feed fetched batch-by-batch from the server
// (spec.md §4.7). It is safe for use from one goroutine at a time calling
// Next/All/One, while runContinue appends later batches from its own
// goroutine and the connection's response pump may call fail concurrently.
type Result struct {
	conn  *Connection
	token int64
	term  *Term

	decodeOpts decodeOpts
	fetchMode  FetchMode
	unwrap     bool
	codec      Codec

	mu    sync.Mutex
	cond  *sync.Cond
	buf   []interface{}
	state resultState
	err   error

	respType p.Response_ResponseType
	isFeed   bool
	profile  interface{}

	lastBatch       int
	continuePending bool
}

func newResult(conn *Connection, token int64, term *Term, fetchMode FetchMode, unwrap bool, decodeOpts decodeOpts) *Result {
	r := &Result{
		conn:       conn,
		token:      token,
		term:       term,
		decodeOpts: decodeOpts,
		fetchMode:  fetchMode,
		unwrap:     unwrap,
		codec:      conn.opts.codec(),
		state:      resultOpen,
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// buildResult wraps the first Response to a START query in a Result,
// translating server errors and, for SUCCESS_PARTIAL responses, registering
// the Result with the connection so later CONTINUE batches can reach it.
func (c *Connection) buildResult(ctx context.Context, q Query, resp *Response) (*Result, error) {
	if resp.Type.IsError() {
		return nil, responseToError(resp, q.Term)
	}

	decodeOpts := decodeOptsFromQueryOpts(q.Opts)
	items, err := resp.decodeItems(decodeOpts)
	if err != nil {
		return nil, err
	}

	fetchMode := c.opts.DefaultFetchMode
	if q.hasFetchMode {
		fetchMode = q.fetchMode
	}

	r := newResult(c, q.Token, q.Term, fetchMode, c.opts.UnwrapLists, decodeOpts)
	r.applyFirst(resp, items)

	if r.state == resultOpen {
		c.registerResult(r)
		r.maybeContinue()
	}
	return r, nil
}

func responseToError(resp *Response, term *Term) error {
	switch resp.Type {
	case p.Response_CLIENT_ERROR:
		return createClientError(resp, term)
	case p.Response_COMPILE_ERROR:
		return createCompileError(resp, term)
	case p.Response_RUNTIME_ERROR:
		return createRuntimeError(resp.ErrorType, resp, term)
	default:
		return newDriverError("reql: unexpected error response type %s", resp.Type)
	}
}

// applyFirst records the first batch and decides whether the Result is
// already finished (atom, sequence) or needs further CONTINUE batches
// (partial, feed).
func (r *Result) applyFirst(resp *Response, items []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.respType = resp.Type
	r.isFeed = resp.isFeed()
	r.profile = resp.Profile

	if resp.Type == p.Response_SUCCESS_ATOM && r.unwrap && len(items) == 1 {
		if list, ok := items[0].([]interface{}); ok {
			items = list
		}
	}

	r.lastBatch = len(items)
	r.buf = append(r.buf, items...)

	switch resp.Type {
	case p.Response_SUCCESS_ATOM:
		r.state = resultDone
	case p.Response_SUCCESS_SEQUENCE:
		r.state = resultDone
	case p.Response_SUCCESS_PARTIAL:
		r.state = resultOpen
	default:
		r.state = resultDone
	}
	r.cond.Broadcast()
}

// maybeContinue issues CONTINUE if the fetch-mode policy calls for it and no
// CONTINUE is already outstanding (spec.md §4.7: at most one outstanding
// CONTINUE per Result).
func (r *Result) maybeContinue() {
	r.mu.Lock()
	if r.state != resultOpen || r.continuePending {
		r.mu.Unlock()
		return
	}
	if !r.fetchMode.shouldContinue(len(r.buf), r.lastBatch) {
		r.mu.Unlock()
		return
	}
	r.continuePending = true
	r.mu.Unlock()

	go r.runContinue()
}

func (r *Result) runContinue() {
	ch := r.conn.sendContinue(r.token)
	roe := <-ch

	r.mu.Lock()
	r.continuePending = false
	if r.state != resultOpen {
		// Close (or a prior error) already finished this Result while the
		// CONTINUE was outstanding; discard the late batch (spec.md §8).
		r.mu.Unlock()
		return
	}
	if roe.err != nil {
		r.finishLocked(resultErrored, roe.err)
		r.mu.Unlock()
		return
	}

	resp := roe.resp
	if resp.Type.IsError() {
		r.finishLocked(resultErrored, responseToError(resp, r.term))
		r.mu.Unlock()
		return
	}

	items, err := resp.decodeItems(r.decodeOpts)
	if err != nil {
		r.finishLocked(resultErrored, err)
		r.mu.Unlock()
		return
	}

	r.lastBatch = len(items)
	r.buf = append(r.buf, items...)
	r.profile = resp.Profile
	if resp.Type != p.Response_SUCCESS_PARTIAL {
		r.state = resultDone
		r.conn.unregisterResult(r.token)
	}
	r.cond.Broadcast()
	r.mu.Unlock()

	if resp.Type == p.Response_SUCCESS_PARTIAL {
		r.maybeContinue()
	}
}

// finishLocked transitions the result to a terminal state. Caller holds mu.
func (r *Result) finishLocked(state resultState, err error) {
	if r.state != resultOpen {
		return
	}
	r.state = state
	r.err = err
	r.conn.unregisterResult(r.token)
	r.cond.Broadcast()
}

// fail is called by the connection when the socket dies: every live Result
// is forced into the errored state so blocked Next calls return promptly.
func (r *Result) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishLocked(resultErrored, err)
}

// IsFeed reports whether this Result is an infinite changefeed.
func (r *Result) IsFeed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isFeed
}

// Profile returns the query's profile data, if profiling was requested.
func (r *Result) Profile() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// Type reports the response type of the most recently applied batch.
func (r *Result) Type() p.Response_ResponseType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.respType
}

// Close cancels an open Result: buffered items are dropped, best-effort STOP
// is sent for a live partial sequence, and the Result transitions to
// cancelled so further Next calls return ErrCursorClosed.
func (r *Result) Close() error {
	r.mu.Lock()
	wasOpen := r.state == resultOpen
	r.finishLocked(resultCancelled, ErrCursorClosed)
	if wasOpen {
		r.buf = nil
	}
	r.mu.Unlock()

	if wasOpen {
		r.conn.sendStop(r.token)
	}
	return nil
}

// Next blocks until an item is available, the Result completes, or ctx is
// cancelled, decoding the next item into dest via the connection's Codec.
func (r *Result) Next(ctx context.Context, dest interface{}) error {
	item, err := r.next(ctx)
	if err != nil {
		return err
	}
	return r.recodeInto(item, dest)
}

func (r *Result) next(ctx context.Context) (interface{}, error) {
	r.mu.Lock()
	for len(r.buf) == 0 && r.state == resultOpen {
		if ctx.Done() == nil {
			r.cond.Wait()
			continue
		}
		// ctx carries a deadline/cancel: poll cond.Wait with a watcher
		// goroutine that broadcasts on cancellation, since sync.Cond has no
		// native context support.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				r.mu.Lock()
				r.cond.Broadcast()
				r.mu.Unlock()
			case <-done:
			}
		}()
		r.cond.Wait()
		close(done)
		if ctx.Err() != nil {
			r.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	if len(r.buf) > 0 {
		item := r.buf[0]
		r.buf = r.buf[1:]
		r.mu.Unlock()
		r.maybeContinue()
		return item, nil
	}

	err := r.err
	state := r.state
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if state == resultCancelled {
		return nil, ErrCursorClosed
	}
	return nil, ErrEmptyResult
}

// NextWithTimeout is a convenience wrapper around Next with a context.Context
// deadline.
func (r *Result) NextWithTimeout(timeout time.Duration, dest interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Next(ctx, dest)
}

// All drains the Result into a slice, decoding each item with the Codec.
// For a feed this blocks forever, mirroring the teacher's cursor semantics.
func (r *Result) All(ctx context.Context, dest interface{}) error {
	var items []interface{}
	for {
		item, err := r.next(ctx)
		if err == ErrEmptyResult {
			break
		}
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	return r.recodeInto(items, dest)
}

// First drains exactly one item from the Result, then cancels it (spec.md
// §4.7's first()): a live partial sequence or feed gets a STOP, so callers
// that only want the head of a stream don't pay for the rest of it.
func (r *Result) First(ctx context.Context, dest interface{}) error {
	item, err := r.next(ctx)
	if err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	return r.recodeInto(item, dest)
}

// One decodes the Result's single item, requiring exactly one item and
// failing otherwise (spec.md §4.7's single()): empty yields ErrEmptyResult,
// and a second item yields ErrNotSingleResult.
func (r *Result) One(ctx context.Context, dest interface{}) error {
	item, err := r.next(ctx)
	if err != nil {
		return err
	}

	if _, err := r.next(ctx); err != ErrEmptyResult {
		if err == nil {
			return ErrNotSingleResult
		}
		return err
	}

	return r.recodeInto(item, dest)
}

// recodeInto round-trips a decoded value back through the Result's Codec
// into dest, the same approach the teacher's encoding package uses to
// support decoding into arbitrary host structs without a bespoke reflect
// walker here.
func (r *Result) recodeInto(item interface{}, dest interface{}) error {
	raw, err := r.codec.Marshal(item)
	if err != nil {
		return wrapDriverError(err)
	}
	if err := r.codec.Unmarshal(raw, dest); err != nil {
		return wrapDriverError(err)
	}
	return nil
}
