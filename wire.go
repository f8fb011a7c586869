package reql

import (
	"encoding/binary"
	"encoding/json"
	"io"
)

// respHeaderLen is the size in bytes of a post-handshake frame header:
// an 8-byte little-endian token followed by a 4-byte little-endian length
// (spec.md §4.3).
const respHeaderLen = 12

// writeQuery serializes q and writes it to w as [token:i64 LE][len:u32 LE][json].
func writeQuery(w io.Writer, q *Query) error {
	built, err := q.build()
	if err != nil {
		return wrapDriverError(err)
	}

	payload, err := json.Marshal(built)
	if err != nil {
		return newDriverError("reql: error building query: %s", err)
	}

	buf := make([]byte, respHeaderLen+len(payload))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(q.Token))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(payload)))
	copy(buf[respHeaderLen:], payload)

	if _, err := w.Write(buf); err != nil {
		return wrapDriverError(err)
	}
	return nil
}

// readResponse reads one frame from r and decodes its JSON body into a
// Response, per spec.md §4.3.
func readResponse(r io.Reader) (*Response, error) {
	header := [respHeaderLen]byte{}
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, wrapDriverError(err)
	}

	token := int64(binary.LittleEndian.Uint64(header[:8]))
	length := binary.LittleEndian.Uint32(header[8:])

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, wrapDriverError(err)
	}

	resp := new(Response)
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, newDriverError("reql: malformed response: %s", err)
	}
	resp.Token = token

	return resp, nil
}
