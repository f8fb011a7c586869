package reql

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	p "github.com/reql-go/reql/ql2"
)

func TestFetchModeShouldContinue(t *testing.T) {
	cases := []struct {
		mode      FetchMode
		buffered  int
		lastBatch int
		want      bool
	}{
		{FetchAggressive, 10, 10, true},
		{FetchLazy, 0, 10, true},
		{FetchLazy, 1, 10, false},
		{FetchPreemptiveHalf, 5, 10, true},
		{FetchPreemptiveHalf, 6, 10, false},
		{FetchPreemptiveThird, 3, 9, true},
		{FetchPreemptiveThird, 4, 9, false},
		{FetchPreemptiveEighth, 1, 8, true},
		{FetchPreemptiveEighth, 2, 8, false},
	}
	for _, c := range cases {
		got := c.mode.shouldContinue(c.buffered, c.lastBatch)
		assert.Equal(t, c.want, got, "mode=%v buffered=%d lastBatch=%d", c.mode, c.buffered, c.lastBatch)
	}
}

// newTestResult builds a Result without a server, for exercising
// applyFirst/next/recodeInto directly. Its Connection writes to one end of a
// net.Pipe whose other end is drained, so the STOP and CONTINUE frames that
// Close and next send succeed but are never answered.
func newTestResult(fetchMode FetchMode, unwrap bool) *Result {
	opts := &ConnectOpts{}
	clientConn, serverConn := net.Pipe()
	go func() { _, _ = io.Copy(io.Discard, serverConn) }()
	r := &Result{
		conn: &Connection{
			conn:     clientConn,
			opts:     opts,
			awaiters: make(map[int64]chan responseOrErr),
			results:  make(map[int64]*Result),
		},
		token:      1,
		decodeOpts: decodeOpts{},
		fetchMode:  fetchMode,
		unwrap:     unwrap,
		codec:      opts.codec(),
		state:      resultOpen,
	}
	r.cond = &sync.Cond{L: &r.mu}
	return r
}

func TestResultApplyFirstAtomDone(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_ATOM}, []interface{}{"hello"})

	assert.Equal(t, resultDone, r.state)
	assert.Equal(t, []interface{}{"hello"}, r.buf)
}

func TestResultApplyFirstUnwrapsSingleListAtom(t *testing.T) {
	r := newTestResult(FetchAggressive, true)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_ATOM}, []interface{}{
		[]interface{}{"a", "b", "c"},
	})

	assert.Equal(t, resultDone, r.state)
	assert.Equal(t, []interface{}{"a", "b", "c"}, r.buf)
}

func TestResultApplyFirstPartialStaysOpen(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_PARTIAL}, []interface{}{"a"})

	assert.Equal(t, resultOpen, r.state)
}

func TestResultNextDrainsBufferThenReturnsEmpty(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_SEQUENCE}, []interface{}{"a", "b"})

	ctx := context.Background()
	v1, err := r.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", v1)

	v2, err := r.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", v2)

	_, err = r.next(ctx)
	assert.Equal(t, ErrEmptyResult, err)
}

func TestResultNextUnblocksOnContextCancel(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_PARTIAL}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.next(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestResultCloseCancelsOpenResult(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_PARTIAL}, nil)

	require.NoError(t, r.Close())

	_, err := r.next(context.Background())
	assert.Equal(t, ErrCursorClosed, err)
}

func TestResultFailPropagatesToBlockedNext(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_PARTIAL}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := r.next(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	sentinel := newDriverError("reql: connection closed")
	r.fail(sentinel)

	select {
	case err := <-done:
		assert.Equal(t, sentinel, err)
	case <-time.After(time.Second):
		t.Fatal("next() never unblocked after fail")
	}
}

func TestResultIsFeedAndProfile(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	resp := &Response{Type: p.Response_SUCCESS_SEQUENCE, Notes: []p.Response_ResponseNote{p.Response_ATOM_FEED}, Profile: "profiled"}
	r.applyFirst(resp, nil)

	assert.True(t, r.IsFeed())
	assert.Equal(t, "profiled", r.Profile())
	assert.Equal(t, p.Response_SUCCESS_SEQUENCE, r.Type())
}

func TestResultOneFailsWithMoreThanOneItem(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_SEQUENCE}, []interface{}{"a", "b"})

	var dest interface{}
	err := r.One(context.Background(), &dest)
	assert.Equal(t, ErrNotSingleResult, err)
}

func TestResultOneSucceedsWithExactlyOneItem(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_SEQUENCE}, []interface{}{"a"})

	var dest string
	require.NoError(t, r.One(context.Background(), &dest))
	assert.Equal(t, "a", dest)
}

func TestResultFirstDrainsOneItemAndCloses(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_PARTIAL}, []interface{}{"a", "b"})

	var dest string
	require.NoError(t, r.First(context.Background(), &dest))
	assert.Equal(t, "a", dest)

	_, err := r.next(context.Background())
	assert.Equal(t, ErrCursorClosed, err)
}

func TestResultOneOnEmptySequence(t *testing.T) {
	r := newTestResult(FetchAggressive, false)
	r.applyFirst(&Response{Type: p.Response_SUCCESS_SEQUENCE}, nil)

	var dest interface{}
	err := r.One(context.Background(), &dest)
	assert.Equal(t, ErrEmptyResult, err)
}
