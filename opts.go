package reql

import (
	"crypto/tls"
	"time"
)

// ConnectOpts configures a Connection, mirroring the teacher's ConnectOpts
// but scoped to a single endpoint (spec.md §1 Non-goals excludes connection
// pooling across hosts, so there is no multi-host/cluster variant here).
type ConnectOpts struct {
	Host Host

	Username string
	Password string

	Database string

	TLSConfig *tls.Config

	Timeout      time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	KeepAlivePeriod time.Duration

	// NumRetries bounds reconnect()'s internal retry loop. Zero uses a
	// driver default (3).
	NumRetries int

	// Codec overrides the default encoding/json-backed Codec used to
	// translate between wire data and Go values.
	Codec Codec

	// DefaultFetchMode sets the Result fetch-mode policy new cursors use
	// when the caller doesn't override it per-query (spec.md §4.7).
	DefaultFetchMode FetchMode

	// UnwrapLists controls whether an atom response wrapping a single list
	// is unwrapped into individual items on iteration (spec.md S2).
	UnwrapLists bool
}

func (o *ConnectOpts) codec() Codec {
	if o.Codec != nil {
		return o.Codec
	}
	return defaultCodec
}

// RunOpts are the global options recognized on Run (spec.md §6).
type RunOpts struct {
	DB             interface{}
	Profile        interface{}
	ArrayLimit     interface{}
	TimeFormat     interface{}
	GroupFormat    interface{}
	BinaryFormat   interface{}
	GeometryFormat interface{}

	MinBatchRows    interface{}
	MaxBatchRows    interface{}
	MaxBatchBytes   interface{}
	MaxBatchSeconds interface{}

	// FetchMode overrides the connection/cursor default for this query only.
	FetchMode FetchMode
}

func (o RunOpts) toMap() map[string]interface{} {
	m := map[string]interface{}{}
	addOpt(m, "db", o.DB)
	addOpt(m, "profile", o.Profile)
	addOpt(m, "array_limit", o.ArrayLimit)
	addOpt(m, "time_format", o.TimeFormat)
	addOpt(m, "group_format", o.GroupFormat)
	addOpt(m, "binary_format", o.BinaryFormat)
	addOpt(m, "geometry_format", o.GeometryFormat)
	addOpt(m, "min_batch_rows", o.MinBatchRows)
	addOpt(m, "max_batch_rows", o.MaxBatchRows)
	addOpt(m, "max_batch_bytes", o.MaxBatchBytes)
	addOpt(m, "max_batch_seconds", o.MaxBatchSeconds)
	return m
}

func addOpt(m map[string]interface{}, key string, v interface{}) {
	if v == nil {
		return
	}
	m[key] = v
}

// CloseOpts configures Connection.Close.
type CloseOpts struct {
	// NoReplyWait makes Close issue a NOREPLY_WAIT before tearing the
	// connection down, so in-flight noreply writes are flushed first.
	NoReplyWait bool
}
