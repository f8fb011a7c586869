package reql

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	p "github.com/reql-go/reql/ql2"
)

const defaultKeepAlivePeriod = 30 * time.Second

const (
	connWorking int32 = 0
	connClosed  int32 = 1
)

// Connection is a client connection to a RethinkDB-speaking server. It owns
// exactly one socket and one response-pump goroutine; sends are serialized
// by writeMu, token allocation is atomic, and the awaiter map is safe for
// concurrent registration (by callers) and removal (by the pump) — spec.md
// §3 "Ownership", §5.
type Connection struct {
	ID uuid.UUID

	conn net.Conn
	opts *ConnectOpts

	closed int32 // atomic: connWorking / connClosed

	token int64 // atomic, monotonic within the connection's lifetime

	writeMu sync.Mutex

	mu       sync.Mutex
	awaiters map[int64]chan responseOrErr
	results  map[int64]*Result

	pumpDone chan struct{}
}

type responseOrErr struct {
	resp *Response
	err  error
}

// Connect dials opts.Host, performs the SCRAM-SHA-256 handshake, and starts
// the response pump. The returned Connection is ready for Run/RunNoReply.
func Connect(opts ConnectOpts) (*Connection, error) {
	c := &Connection{
		ID:       uuid.New(),
		opts:     &opts,
		awaiters: make(map[int64]chan responseOrErr),
		results:  make(map[int64]*Result),
		pumpDone: make(chan struct{}),
	}
	if err := c.dial(); err != nil {
		return nil, err
	}
	go c.pump()
	return c, nil
}

func (c *Connection) dial() error {
	keepAlive := defaultKeepAlivePeriod
	if c.opts.KeepAlivePeriod > 0 {
		keepAlive = c.opts.KeepAlivePeriod
	}

	dialer := net.Dialer{Timeout: c.opts.Timeout, KeepAlive: keepAlive}

	var nc net.Conn
	var err error
	if c.opts.TLSConfig == nil {
		nc, err = dialer.Dial("tcp", c.opts.Host.String())
	} else {
		nc, err = tls.DialWithDialer(&dialer, "tcp", c.opts.Host.String(), c.opts.TLSConfig)
	}
	if err != nil {
		return newDriverError("reql: dial %s: %s", c.opts.Host, err)
	}

	return c.handshakeOver(nc)
}

// handshakeOver runs the SCRAM exchange over an already-established
// net.Conn and, on success, adopts it as c.conn. Split out of dial so tests
// can drive the handshake over a net.Pipe instead of a real socket.
func (c *Connection) handshakeOver(nc net.Conn) error {
	if c.opts.ReadTimeout > 0 || c.opts.WriteTimeout > 0 {
		deadline := maxDuration(c.opts.ReadTimeout, c.opts.WriteTimeout)
		_ = nc.SetDeadline(time.Now().Add(deadline))
	}

	h := newHandshake(nc, c.opts.Username, c.opts.Password)
	if err := h.run(); err != nil {
		_ = nc.Close()
		if ne, ok := unwrapNetTimeout(err); ok && ne {
			return newDriverError("reql: Connection timed out.")
		}
		return err
	}

	_ = nc.SetDeadline(time.Time{})
	atomic.StoreInt32(&c.closed, connWorking)
	c.conn = nc
	return nil
}

func unwrapNetTimeout(err error) (bool, bool) {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout(), true
	}
	return false, false
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// Reconnect closes the connection (if open) and reconnects, retrying the
// dial+handshake up to opts.NumRetries times with exponential backoff. This
// is the one automatic-retry primitive this driver exposes (spec.md §1
// Non-goals): it does not keep retrying indefinitely or run in the
// background.
func (c *Connection) Reconnect(drainNoReply bool) error {
	_ = c.Close(CloseOpts{NoReplyWait: drainNoReply})

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	retryable := backoff.WithMaxRetries(b, uint64(c.numRetries()))

	err := backoff.Retry(func() error {
		return c.dial()
	}, retryable)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.awaiters = make(map[int64]chan responseOrErr)
	c.results = make(map[int64]*Result)
	c.pumpDone = make(chan struct{})
	c.mu.Unlock()
	atomic.StoreInt64(&c.token, 0)

	go c.pump()
	return nil
}

// newConnectionOverConn builds a Connection around an already-dialed
// net.Conn, performing the handshake and starting the pump. Exported only
// within the package: production callers go through Connect, which owns
// the actual TCP/TLS dial; tests use this to substitute a net.Pipe.
func newConnectionOverConn(nc net.Conn, opts ConnectOpts) (*Connection, error) {
	c := &Connection{
		ID:       uuid.New(),
		opts:     &opts,
		awaiters: make(map[int64]chan responseOrErr),
		results:  make(map[int64]*Result),
		pumpDone: make(chan struct{}),
	}
	if err := c.handshakeOver(nc); err != nil {
		return nil, err
	}
	go c.pump()
	return c, nil
}

func (c *Connection) numRetries() int {
	if c.opts.NumRetries > 0 {
		return c.opts.NumRetries
	}
	return 3
}

func (c *Connection) nextToken() int64 {
	return atomic.AddInt64(&c.token, 1)
}

func (c *Connection) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == connClosed
}

// Close tears the connection down: optionally NOREPLY_WAITs first, notifies
// every live Result that the connection is gone, fails every outstanding
// awaiter, stops the pump, and closes the socket (spec.md §4.6).
func (c *Connection) Close(optArgs ...CloseOpts) error {
	var opts CloseOpts
	if len(optArgs) > 0 {
		opts = optArgs[0]
	}

	if c.isClosed() {
		return nil
	}

	if opts.NoReplyWait {
		_ = c.noreplyWait(context.Background())
	}

	atomic.StoreInt32(&c.closed, connClosed)
	err := c.conn.Close()

	<-c.pumpDone

	atomic.StoreInt64(&c.token, 0)
	return err
}

// Run allocates a token, injects the default db, sends a START frame, and
// waits for the first Response, wrapping it in a Result (spec.md §4.6).
func (c *Connection) Run(ctx context.Context, term Term, opts map[string]interface{}) (*Result, error) {
	return c.run(ctx, term, opts, 0, false)
}

// RunWithOpts is Run plus a per-query fetch-mode override (spec.md §4.7).
func (c *Connection) RunWithOpts(ctx context.Context, term Term, ro RunOpts) (*Result, error) {
	return c.run(ctx, term, ro.toMap(), ro.FetchMode, true)
}

func (c *Connection) run(ctx context.Context, term Term, opts map[string]interface{}, fetchMode FetchMode, hasFetchMode bool) (*Result, error) {
	if _, bad := opts["noreply"]; bad {
		return nil, newDriverError("reql: noreply is not accepted by Run; use RunNoReply")
	}

	q, err := c.newStartQuery(term, opts)
	if err != nil {
		return nil, err
	}
	q.Token = c.nextToken()
	q.fetchMode = fetchMode
	q.hasFetchMode = hasFetchMode

	resp, err := c.sendAndAwait(ctx, q)
	if err != nil {
		return nil, err
	}

	return c.buildResult(ctx, q, resp)
}

// RunNoReply sends a START frame with noreply=true and does not wait.
func (c *Connection) RunNoReply(term Term, opts map[string]interface{}) error {
	optsCopy := map[string]interface{}{}
	for k, v := range opts {
		optsCopy[k] = v
	}
	optsCopy["noreply"] = true

	q, err := c.newStartQuery(term, optsCopy)
	if err != nil {
		return err
	}
	q.Token = c.nextToken()
	return c.writeQuery(&q)
}

func (c *Connection) newStartQuery(term Term, opts map[string]interface{}) (Query, error) {
	optsCopy := map[string]interface{}{}
	for k, v := range opts {
		optsCopy[k] = v
	}
	if _, hasDB := optsCopy["db"]; !hasDB && c.opts.Database != "" {
		built, err := DB(c.opts.Database).build()
		if err != nil {
			return Query{}, wrapDriverError(err)
		}
		optsCopy["db"] = built
	} else if dbStr, ok := optsCopy["db"].(string); ok {
		built, err := DB(dbStr).build()
		if err != nil {
			return Query{}, wrapDriverError(err)
		}
		optsCopy["db"] = built
	}

	return Query{Type: p.Query_START, Term: &term, Opts: optsCopy}, nil
}

// noreplyWait sends NOREPLY_WAIT and awaits WAIT_COMPLETE.
func (c *Connection) noreplyWait(ctx context.Context) error {
	q := Query{Type: p.Query_NOREPLY_WAIT, Token: c.nextToken()}
	_, err := c.sendAndAwait(ctx, q)
	return err
}

// NoreplyWait is the exported form of noreplyWait.
func (c *Connection) NoreplyWait(ctx context.Context) error { return c.noreplyWait(ctx) }

// Server issues a SERVER_INFO query and decodes the {id, name} response.
func (c *Connection) Server(ctx context.Context) (ServerResponse, error) {
	var out ServerResponse
	q := Query{Type: p.Query_SERVER_INFO, Token: c.nextToken()}
	resp, err := c.sendAndAwait(ctx, q)
	if err != nil {
		return out, err
	}
	if resp.Type != p.Response_SERVER_INFO && resp.Type != p.Response_SUCCESS_ATOM {
		return out, newDriverError("reql: unexpected response to SERVER_INFO: %s", resp.Type)
	}
	if len(resp.Responses) == 0 {
		return out, newDriverError("reql: empty SERVER_INFO response")
	}
	if err := defaultCodec.Unmarshal(resp.Responses[0], &out); err != nil {
		return out, wrapDriverError(err)
	}
	return out, nil
}

// ServerResponse is the shape of the SERVER_INFO query's result.
type ServerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// sendContinue sends CONTINUE for token and returns a channel delivering
// exactly one response-or-error.
func (c *Connection) sendContinue(token int64) <-chan responseOrErr {
	ch := make(chan responseOrErr, 1)
	c.registerAwaiter(token, ch)

	q := newContinueQuery(token)
	if err := c.writeQuery(&q); err != nil {
		c.removeAwaiter(token)
		ch <- responseOrErr{err: err}
	}
	return ch
}

// sendStop sends STOP and does not await a response; the pump silently
// discards the eventual reply since no awaiter is registered for it.
func (c *Connection) sendStop(token int64) {
	q := newStopQuery(token)
	_ = c.writeQuery(&q)
}

// sendAndAwait writes q (whose Token the caller must already have set) and
// blocks for its single response, a context cancellation, or connection
// teardown — whichever comes first.
func (c *Connection) sendAndAwait(ctx context.Context, q Query) (*Response, error) {
	ch := make(chan responseOrErr, 1)
	c.registerAwaiter(q.Token, ch)

	if err := c.writeQuery(&q); err != nil {
		c.removeAwaiter(q.Token)
		return nil, err
	}

	select {
	case roe := <-ch:
		return roe.resp, roe.err
	case <-ctx.Done():
		c.removeAwaiter(q.Token)
		c.sendStop(q.Token)
		return nil, ErrQueryTimeout
	case <-c.pumpDone:
		return nil, ErrConnectionClosed
	}
}

func (c *Connection) writeQuery(q *Query) error {
	if c.isClosed() {
		return ErrConnectionClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return writeQuery(c.conn, q)
}

func (c *Connection) registerAwaiter(token int64, ch chan responseOrErr) {
	c.mu.Lock()
	c.awaiters[token] = ch
	c.mu.Unlock()
}

func (c *Connection) removeAwaiter(token int64) {
	c.mu.Lock()
	delete(c.awaiters, token)
	c.mu.Unlock()
}

func (c *Connection) registerResult(r *Result) {
	c.mu.Lock()
	c.results[r.token] = r
	c.mu.Unlock()
}

func (c *Connection) unregisterResult(token int64) {
	c.mu.Lock()
	delete(c.results, token)
	c.mu.Unlock()
}

// pump is the single reader loop: it reads frames and demultiplexes them to
// per-token awaiters (spec.md §4.5).
func (c *Connection) pump() {
	defer close(c.pumpDone)
	for {
		resp, err := readResponse(c.conn)
		if err != nil {
			c.drainOnError(err)
			return
		}
		c.dispatch(resp)
	}
}

func (c *Connection) dispatch(resp *Response) {
	c.mu.Lock()
	ch, ok := c.awaiters[resp.Token]
	if ok {
		delete(c.awaiters, resp.Token)
	}
	c.mu.Unlock()

	if ok {
		ch <- responseOrErr{resp: resp}
		return
	}

	// No awaiter: either this is a swallowed STOP reply, or it's a later
	// batch for a Result that issued its own CONTINUE asynchronously and is
	// waiting on its own awaiter (registered via sendContinue, which *is*
	// present in the map above) — so reaching here really does mean "lost
	// token", discarded per spec.md §4.5.
	Log.Debugf("reql: discarding response for unknown token %d", resp.Token)
}

func (c *Connection) drainOnError(cause error) {
	driverErr := wrapDriverError(cause)

	c.mu.Lock()
	awaiters := c.awaiters
	c.awaiters = make(map[int64]chan responseOrErr)
	results := c.results
	c.results = make(map[int64]*Result)
	c.mu.Unlock()

	for _, ch := range awaiters {
		ch <- responseOrErr{err: driverErr}
	}
	for _, r := range results {
		r.fail(driverErr)
	}

	atomic.StoreInt32(&c.closed, connClosed)
	Log.Warnf("reql: connection %s pump exiting: %s", c.ID, cause)
}
