package reql

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	p "github.com/reql-go/reql/ql2"
)

func TestEscapeSCRAMName(t *testing.T) {
	assert.Equal(t, "a=3Db=2Cc", escapeSCRAMName("a=b,c"))
}

func TestParseSCRAMFields(t *testing.T) {
	fields := parseSCRAMFields("r=abc,s=c2FsdA==,i=4096")
	assert.Equal(t, "abc", fields["r"])
	assert.Equal(t, "c2FsdA==", fields["s"])
	assert.Equal(t, "4096", fields["i"])
}

func TestXorBytes(t *testing.T) {
	a := []byte{0xff, 0x0f}
	b := []byte{0x0f, 0xff}
	assert.Equal(t, []byte{0xf0, 0xf0}, xorBytes(a, b))
}

func TestPBKDF2CacheReusesDerivation(t *testing.T) {
	cache := &pbkdf2Cache{cache: make(map[pbkdf2CacheKey][]byte)}
	first := cache.derive("pw", "salt", 100)
	second := cache.derive("pw", "salt", 100)
	assert.Equal(t, first, second)
	assert.Len(t, cache.cache, 1)
}

// scramServer is a minimal server-side counterpart to handshake.go, used to
// drive a real SCRAM-SHA-256 exchange end to end over a net.Pipe.
type scramServer struct {
	conn     net.Conn
	username string
	password string
	salt     []byte
	iters    int
}

func (s *scramServer) readNullTerminated() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(s.conn, buf); err != nil {
			return "", err
		}
		if buf[0] == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(buf[0])
	}
}

func (s *scramServer) writeJSON(v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	body = append(body, 0)
	_, err = s.conn.Write(body)
	return err
}

func (s *scramServer) run() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(s.conn, magic); err != nil {
		return err
	}
	if binary.LittleEndian.Uint32(magic) != uint32(p.Version_V1_0) {
		return newDriverError("reql: test server saw unexpected magic")
	}

	clientFirstLine, err := s.readNullTerminated()
	if err != nil {
		return err
	}
	var clientFirst struct {
		Authentication string `json:"authentication"`
	}
	if err := json.Unmarshal([]byte(clientFirstLine), &clientFirst); err != nil {
		return err
	}
	clientFirstBare := strings.TrimPrefix(clientFirst.Authentication, "n,,")
	clientFields := parseSCRAMFields(clientFirstBare)
	clientNonce := clientFields["r"]

	if err := s.writeJSON(map[string]interface{}{
		"success":              true,
		"min_protocol_version": 0,
		"max_protocol_version": 0,
	}); err != nil {
		return err
	}

	serverNoncePart := make([]byte, 9)
	_, _ = rand.Read(serverNoncePart)
	serverNonce := clientNonce + base64.StdEncoding.EncodeToString(serverNoncePart)
	saltedPassword := pbkdf2.Key([]byte(s.password), s.salt, s.iters, sha256.Size, sha256.New)

	serverFirst := "r=" + serverNonce + ",s=" + base64.StdEncoding.EncodeToString(s.salt) + ",i=" + strconv.Itoa(s.iters)
	if err := s.writeJSON(map[string]interface{}{
		"success":        true,
		"authentication": serverFirst,
	}); err != nil {
		return err
	}

	clientFinalLine, err := s.readNullTerminated()
	if err != nil {
		return err
	}
	var clientFinal struct {
		Authentication string `json:"authentication"`
	}
	if err := json.Unmarshal([]byte(clientFinalLine), &clientFinal); err != nil {
		return err
	}
	finalFields := parseSCRAMFields(clientFinal.Authentication)
	clientProof, err := base64.StdEncoding.DecodeString(finalFields["p"])
	if err != nil {
		return err
	}

	clientKey := hmacSum(saltedPassword, "Client Key")
	storedKey := sha256Sum(clientKey)
	clientFinalWithoutProof := "c=biws,r=" + serverNonce
	authMessage := clientFirstBare + "," + serverFirst + "," + clientFinalWithoutProof
	clientSignature := hmacSum(storedKey, authMessage)
	expectedProof := xorBytes(clientKey, clientSignature)
	if !bytes.Equal(expectedProof, clientProof) {
		_ = s.writeJSON(map[string]interface{}{
			"success":    false,
			"error_code": 12,
			"error":      "Invalid client proof",
		})
		return newDriverError("reql: test server rejected client proof")
	}

	serverKey := hmacSum(saltedPassword, "Server Key")
	serverSignature := hmacSum(serverKey, authMessage)

	return s.writeJSON(map[string]interface{}{
		"success":        true,
		"authentication": "v=" + base64.StdEncoding.EncodeToString(serverSignature),
	})
}

func TestHandshakeSucceedsAgainstScramServer(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	srv := &scramServer{conn: serverConn, username: "admin", password: "secret", salt: []byte("abcdefgh"), iters: 100}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.run() }()

	h := newHandshake(clientConn, "admin", "secret")
	require.NoError(t, h.run())
	require.NoError(t, <-errCh)
}

func TestHandshakeFailsWithWrongPassword(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	srv := &scramServer{conn: serverConn, username: "admin", password: "secret", salt: []byte("abcdefgh"), iters: 100}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.run() }()

	h := newHandshake(clientConn, "admin", "wrong")
	err := h.run()
	assert.Error(t, err)
	<-errCh
}
