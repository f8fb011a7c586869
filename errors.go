package reql

import (
	"errors"
	"fmt"

	p "github.com/reql-go/reql/ql2"
)

// Sentinel errors returned by the connection and cursor machinery.
var (
	ErrConnectionClosed     = errors.New("reql: connection closed")
	ErrInvalidHost          = errors.New("reql: invalid host")
	ErrNoConnectionsStarted = errors.New("reql: no connections were made when opening connection")
	ErrQueryTimeout         = errors.New("reql: query timed out")
	ErrCursorClosed         = errors.New("reql: cursor closed")
	ErrEmptyResult          = errors.New("reql: no more rows in the cursor")
	ErrNotSingleResult      = errors.New("reql: expected exactly one row in the cursor")
	ErrWrongResponseType    = errors.New("reql: response type not supported")
)

// DriverError represents a local, non-server fault: I/O, serialization,
// protocol violations, or term-conversion depth exhaustion.
type DriverError struct {
	msg   string
	cause error
}

func newDriverError(format string, args ...interface{}) DriverError {
	return DriverError{msg: fmt.Sprintf(format, args...)}
}

func wrapDriverError(cause error) DriverError {
	return DriverError{msg: cause.Error(), cause: cause}
}

func (e DriverError) Error() string { return e.msg }
func (e DriverError) Unwrap() error { return e.cause }

// AuthError represents a SCRAM/handshake failure, including server-reported
// authentication error codes in the range [10, 20].
type AuthError struct {
	msg  string
	Code int
}

func (e AuthError) Error() string { return e.msg }

func newAuthError(code int, format string, args ...interface{}) AuthError {
	return AuthError{msg: fmt.Sprintf(format, args...), Code: code}
}

// QueryError is the common shape of errors the server reports against a
// specific query: client, compile, and runtime errors all carry a message,
// an optional backtrace, and the term that produced them.
type QueryError struct {
	Kind      string // "CLIENT", "COMPILE", or "RUNTIME"
	ErrorType p.Response_ErrorType
	msg       string
	Backtrace []interface{}
	Term      *Term
}

func (e QueryError) Error() string { return e.msg }

// ClientError indicates the server considered the query's wire form malformed.
type ClientError struct{ QueryError }

// CompileError indicates the server rejected the query during compilation.
type CompileError struct{ QueryError }

// RuntimeError indicates the server failed the query during execution.
// ErrorType further subdivides it into internal, resource-limit,
// query-logic (and its non-existence subtype), op-failed,
// op-indeterminate, user, and permission errors.
type RuntimeError struct{ QueryError }

func newQueryError(kind string, msg string, backtrace []interface{}, term *Term) QueryError {
	return QueryError{Kind: kind, msg: msg, Backtrace: backtrace, Term: term}
}

func createClientError(resp *Response, term *Term) error {
	return ClientError{newQueryError("CLIENT", firstErrorMessage(resp), resp.Backtrace, term)}
}

func createCompileError(resp *Response, term *Term) error {
	return CompileError{newQueryError("COMPILE", firstErrorMessage(resp), resp.Backtrace, term)}
}

func createRuntimeError(errType p.Response_ErrorType, resp *Response, term *Term) error {
	qe := newQueryError("RUNTIME", firstErrorMessage(resp), resp.Backtrace, term)
	qe.ErrorType = errType
	return RuntimeError{qe}
}

// IsNonExistence reports whether a RuntimeError is the non-existence
// subtype of query-logic errors (e.g. "Table not found").
func (e RuntimeError) IsNonExistence() bool {
	return e.ErrorType == p.Response_NON_EXISTENCE
}

func firstErrorMessage(resp *Response) string {
	if len(resp.Responses) == 0 {
		return "reql: unknown server error"
	}
	var msg string
	if err := defaultCodec.Unmarshal(resp.Responses[0], &msg); err != nil {
		return string(resp.Responses[0])
	}
	return msg
}
