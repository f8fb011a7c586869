package reql

import (
	"encoding/json"

	p "github.com/reql-go/reql/ql2"
)

// Response is the raw, decoded server reply to a single query token
// (spec.md §3). Most callers should use Result instead of reading this
// directly.
type Response struct {
	Token     int64
	Type      p.Response_ResponseType   `json:"t"`
	ErrorType p.Response_ErrorType      `json:"e"`
	Notes     []p.Response_ResponseNote `json:"n"`
	Responses []json.RawMessage         `json:"r"`
	Backtrace []interface{}             `json:"b"`
	Profile   interface{}               `json:"p"`
}

// isFeed reports whether the response carries any feed note (spec.md §4.7).
func (r *Response) isFeed() bool {
	for _, n := range r.Notes {
		switch n {
		case p.Response_SEQUENCE_FEED, p.Response_ATOM_FEED,
			p.Response_ORDER_BY_LIMIT_FEED, p.Response_UNIONED_FEED:
			return true
		}
	}
	return false
}

// decodeItems decodes every element of Responses, translating pseudo-types
// per the supplied options.
func (r *Response) decodeItems(opts decodeOpts) ([]interface{}, error) {
	out := make([]interface{}, len(r.Responses))
	for i, raw := range r.Responses {
		var generic interface{}
		if err := defaultCodec.Unmarshal(raw, &generic); err != nil {
			return nil, wrapDriverError(err)
		}
		decoded, err := decodePseudoTypes(generic, opts)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}
