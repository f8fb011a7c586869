package reql

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	p "github.com/reql-go/reql/ql2"
)

// fakeServer drives the server side of a net.Pipe: it completes the SCRAM
// handshake via scramServer, then lets a test script raw query/response
// frames without needing a real reqlite/rethinkdb process.
type fakeServer struct {
	conn net.Conn
}

func newFakeServer(t *testing.T, conn net.Conn) *fakeServer {
	srv := &scramServer{conn: conn, username: "admin", password: "", salt: []byte("abcdefgh"), iters: 100}
	require.NoError(t, srv.run())
	return &fakeServer{conn: conn}
}

// readRawQuery reads one [token][len][json] frame and decodes the payload
// into its raw query array, since readResponse assumes a response shape.
func (s *fakeServer) readRawQuery(t *testing.T) (int64, []interface{}) {
	header := [respHeaderLen]byte{}
	_, err := io.ReadFull(s.conn, header[:])
	require.NoError(t, err)

	token := int64(binary.LittleEndian.Uint64(header[:8]))
	length := binary.LittleEndian.Uint32(header[8:])

	body := make([]byte, length)
	_, err = io.ReadFull(s.conn, body)
	require.NoError(t, err)

	var payload []interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return token, payload
}

func (s *fakeServer) sendResponse(t *testing.T, token int64, resp map[string]interface{}) {
	body, err := json.Marshal(resp)
	require.NoError(t, err)

	buf := make([]byte, respHeaderLen+len(body))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(token))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(body)))
	copy(buf[respHeaderLen:], body)

	_, err = s.conn.Write(buf)
	require.NoError(t, err)
}

func newTestConnectionPair(t *testing.T) (*Connection, *fakeServer) {
	clientConn, serverConn := net.Pipe()

	srvReady := make(chan *fakeServer, 1)
	go func() { srvReady <- newFakeServer(t, serverConn) }()

	c, err := newConnectionOverConn(clientConn, ConnectOpts{Username: "admin", Password: ""})
	require.NoError(t, err)

	srv := <-srvReady
	return c, srv
}

func TestConnectionRunAtom(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		token, _ := srv.readRawQuery(t)
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_SUCCESS_ATOM),
			"r": []interface{}{float64(42)},
		})
	}()

	res, err := c.Run(context.Background(), Expr(1), nil)
	require.NoError(t, err)
	<-done

	var out float64
	require.NoError(t, res.One(context.Background(), &out))
	assert.Equal(t, float64(42), out)
}

func TestConnectionRunPartialThenContinue(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	go func() {
		token, _ := srv.readRawQuery(t)
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_SUCCESS_PARTIAL),
			"r": []interface{}{float64(1), float64(2)},
		})

		ctoken, payload := srv.readRawQuery(t)
		assert.Equal(t, token, ctoken)
		assert.Equal(t, float64(p.Query_CONTINUE), payload[0])
		srv.sendResponse(t, ctoken, map[string]interface{}{
			"t": int(p.Response_SUCCESS_SEQUENCE),
			"r": []interface{}{float64(3)},
		})
	}()

	res, err := c.RunWithOpts(context.Background(), Table("people"), RunOpts{FetchMode: FetchLazy})
	require.NoError(t, err)

	var all []float64
	require.NoError(t, res.All(context.Background(), &all))
	assert.Equal(t, []float64{1, 2, 3}, all)
}

func TestConnectionRunRuntimeError(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	go func() {
		token, _ := srv.readRawQuery(t)
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_RUNTIME_ERROR),
			"e": int(1000000),
			"r": []interface{}{"no such table"},
		})
	}()

	_, err := c.Run(context.Background(), Table("ghost"), nil)
	require.Error(t, err)
	rte, ok := err.(RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "no such table", rte.Error())
}

func TestConnectionServerInfo(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	go func() {
		token, payload := srv.readRawQuery(t)
		assert.Equal(t, float64(p.Query_SERVER_INFO), payload[0])
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_SERVER_INFO),
			"r": []interface{}{map[string]interface{}{"id": "abc", "name": "node1"}},
		})
	}()

	info, err := c.Server(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "node1", info.Name)
}

func TestConnectionRunNoReply(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, payload := srv.readRawQuery(t)
		assert.Equal(t, float64(p.Query_START), payload[0])
	}()

	require.NoError(t, c.RunNoReply(Expr(1), nil))
	<-done
}

func TestConnectionLostTokenIsDiscarded(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	go func() {
		token, _ := srv.readRawQuery(t)
		// Respond to an unrelated token first: the pump must discard it
		// silently instead of misdelivering it to the real awaiter.
		srv.sendResponse(t, token+999, map[string]interface{}{
			"t": int(p.Response_SUCCESS_ATOM),
			"r": []interface{}{float64(-1)},
		})
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_SUCCESS_ATOM),
			"r": []interface{}{float64(7)},
		})
	}()

	res, err := c.Run(context.Background(), Expr(1), nil)
	require.NoError(t, err)

	var out float64
	require.NoError(t, res.One(context.Background(), &out))
	assert.Equal(t, float64(7), out)
}

func TestConnectionLateContinueDiscardedAfterClose(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	continueSent := make(chan int64, 1)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		token, _ := srv.readRawQuery(t)
		srv.sendResponse(t, token, map[string]interface{}{
			"t": int(p.Response_SUCCESS_PARTIAL),
			"r": []interface{}{float64(1)},
		})

		ctoken, payload := srv.readRawQuery(t)
		assert.Equal(t, float64(p.Query_CONTINUE), payload[0])
		continueSent <- ctoken

		stoken, stopPayload := srv.readRawQuery(t)
		assert.Equal(t, float64(p.Query_STOP), stopPayload[0])
		assert.Equal(t, ctoken, stoken)

		// Deliver the CONTINUE's response only after the client has already
		// sent STOP: this is the late-batch race the fix discards.
		srv.sendResponse(t, ctoken, map[string]interface{}{
			"t": int(p.Response_SUCCESS_SEQUENCE),
			"r": []interface{}{float64(2)},
		})
	}()

	res, err := c.RunWithOpts(context.Background(), Table("people"), RunOpts{FetchMode: FetchAggressive})
	require.NoError(t, err)

	<-continueSent
	require.NoError(t, res.Close())

	<-serverDone
	time.Sleep(20 * time.Millisecond) // let the late response reach runContinue

	res.mu.Lock()
	state := res.state
	buffered := len(res.buf)
	res.mu.Unlock()
	assert.Equal(t, resultCancelled, state, "late CONTINUE batch must not resurrect a closed Result")
	assert.Zero(t, buffered, "late CONTINUE batch must not be appended after close")

	_, err = res.next(context.Background())
	assert.Equal(t, ErrCursorClosed, err)
}

func TestConnectionRunTimesOutOnContextCancel(t *testing.T) {
	c, srv := newTestConnectionPair(t)
	defer c.Close()

	stopSeen := make(chan struct{})
	go func() {
		srv.readRawQuery(t)
		// Never respond to the START; instead wait for the STOP the client
		// sends once its context is cancelled.
		_, payload := srv.readRawQuery(t)
		assert.Equal(t, float64(p.Query_STOP), payload[0])
		close(stopSeen)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Run(ctx, Table("slow"), nil)
	assert.Equal(t, ErrQueryTimeout, err)

	select {
	case <-stopSeen:
	case <-time.After(time.Second):
		t.Fatal("server never saw STOP")
	}
}
