package reql

import (
	"bytes"
	"encoding/json"
)

// Codec is the JSON boundary this driver delegates to. The driver itself
// only needs to encode/decode maps, lists, numbers, strings, booleans and
// null plus the pseudo-type wrapper objects defined in pseudotypes.go — it
// does not implement a general host-object mapper (reflect-based struct
// tags, etc). Callers who need that can supply their own Codec; the
// zero-value Connection uses jsonCodec, a thin wrapper over encoding/json.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

var defaultCodec Codec = jsonCodec{}
