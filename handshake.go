package reql

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	p "github.com/reql-go/reql/ql2"
)

// handshakeState names the states of the SCRAM-SHA-256 exchange (spec.md
// §4.4). The client always starts in waitProtocolRange.
type handshakeState int

const (
	waitProtocolRange handshakeState = iota
	waitAuthResponse
	waitAuthSuccess
	handshakeDone
)

// pbkdf2Cache memoizes SaltedPassword derivation by (password, salt,
// iterations), since the server salt is per-user and the iteration count is
// fixed per deployment: caching materially speeds up reconnect storms
// (spec.md §9).
type pbkdf2Cache struct {
	mu    sync.Mutex
	cache map[pbkdf2CacheKey][]byte
}

type pbkdf2CacheKey struct {
	password string
	salt     string
	iters    int
}

var globalPBKDF2Cache = &pbkdf2Cache{cache: make(map[pbkdf2CacheKey][]byte)}

func (c *pbkdf2Cache) derive(password, salt string, iters int) []byte {
	key := pbkdf2CacheKey{password: password, salt: salt, iters: iters}

	c.mu.Lock()
	if v, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	saltedPassword := pbkdf2.Key([]byte(password), []byte(salt), iters, sha256.Size, sha256.New)

	c.mu.Lock()
	c.cache[key] = saltedPassword
	c.mu.Unlock()
	return saltedPassword
}

// handshake drives the multi-step SCRAM-SHA-256 exchange over conn,
// blocking until authentication completes or fails.
type handshake struct {
	conn     io.ReadWriter
	username string
	password string

	clientNonce string
	clientFirstBare string
}

func newHandshake(conn io.ReadWriter, username, password string) *handshake {
	return &handshake{conn: conn, username: username, password: password}
}

// run performs the full exchange described in spec.md §4.4.
func (h *handshake) run() error {
	if err := h.sendClientFirst(); err != nil {
		return err
	}

	serverFirst, err := h.readNullTerminated()
	if err != nil {
		return err
	}
	if err := h.handleProtocolRange(serverFirst); err != nil {
		return err
	}

	serverSecond, err := h.readNullTerminated()
	if err != nil {
		return err
	}
	serverSignature, err := h.handleAuthChallenge(serverSecond)
	if err != nil {
		return err
	}

	serverThird, err := h.readNullTerminated()
	if err != nil {
		return err
	}
	return h.handleAuthSuccess(serverThird, serverSignature)
}

func (h *handshake) sendClientFirst() error {
	nonce, err := randomNonce()
	if err != nil {
		return wrapDriverError(err)
	}
	h.clientNonce = nonce

	escapedUser := escapeSCRAMName(h.username)
	h.clientFirstBare = "n=" + escapedUser + ",r=" + h.clientNonce
	auth := "n,," + h.clientFirstBare

	body, err := json.Marshal(map[string]interface{}{
		"protocol_version":     0,
		"authentication_method": "SCRAM-SHA-256",
		"authentication":       auth,
	})
	if err != nil {
		return wrapDriverError(err)
	}

	magic := make([]byte, 4)
	binary.LittleEndian.PutUint32(magic, uint32(p.Version_V1_0))

	buf := append(magic, body...)
	buf = append(buf, 0)
	if _, err := h.conn.Write(buf); err != nil {
		return wrapDriverError(err)
	}
	return nil
}

func (h *handshake) handleProtocolRange(line string) error {
	var resp struct {
		Success            bool   `json:"success"`
		MinProtocolVersion int    `json:"min_protocol_version"`
		MaxProtocolVersion int    `json:"max_protocol_version"`
		ErrorCode          int    `json:"error_code"`
		Error              string `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return newDriverError("reql: malformed handshake response: %s", err)
	}

	if !resp.Success {
		if resp.ErrorCode >= 10 && resp.ErrorCode <= 20 {
			return newAuthError(resp.ErrorCode, "%s", resp.Error)
		}
		return newDriverError("%s", resp.Error)
	}

	if 0 < resp.MinProtocolVersion || 0 > resp.MaxProtocolVersion {
		return newDriverError("reql: unsupported protocol version range [%d, %d]", resp.MinProtocolVersion, resp.MaxProtocolVersion)
	}
	return nil
}

// handleAuthChallenge parses the server's SCRAM challenge, computes the
// proof, sends the client's final message, and returns the expected
// ServerSignature for later verification.
func (h *handshake) handleAuthChallenge(line string) ([]byte, error) {
	var resp struct {
		Success        bool   `json:"success"`
		Authentication string `json:"authentication"`
		ErrorCode      int    `json:"error_code"`
		Error          string `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, newDriverError("reql: malformed handshake response: %s", err)
	}
	if !resp.Success {
		if resp.ErrorCode >= 10 && resp.ErrorCode <= 20 {
			return nil, newAuthError(resp.ErrorCode, "%s", resp.Error)
		}
		return nil, newDriverError("%s", resp.Error)
	}

	fields := parseSCRAMFields(resp.Authentication)
	serverNonce := fields["r"]
	salt := fields["s"]
	itersStr := fields["i"]

	if !strings.HasPrefix(serverNonce, h.clientNonce) {
		return nil, newAuthError(0, "reql: server nonce does not extend client nonce")
	}

	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return nil, newDriverError("reql: invalid SCRAM iteration count: %s", itersStr)
	}

	saltDecoded, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, wrapDriverError(err)
	}

	saltedPassword := globalPBKDF2Cache.derive(h.password, string(saltDecoded), iters)
	clientKey := hmacSum(saltedPassword, "Client Key")
	storedKey := sha256Sum(clientKey)

	clientFinalWithoutProof := "c=biws,r=" + serverNonce
	authMessage := h.clientFirstBare + "," + resp.Authentication + "," + clientFinalWithoutProof

	clientSignature := hmacSum(storedKey, authMessage)
	clientProof := xorBytes(clientKey, clientSignature)

	serverKey := hmacSum(saltedPassword, "Server Key")
	serverSignature := hmacSum(serverKey, authMessage)

	clientFinal := clientFinalWithoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof)
	body, err := json.Marshal(map[string]interface{}{"authentication": clientFinal})
	if err != nil {
		return nil, wrapDriverError(err)
	}
	body = append(body, 0)
	if _, err := h.conn.Write(body); err != nil {
		return nil, wrapDriverError(err)
	}

	return serverSignature, nil
}

func (h *handshake) handleAuthSuccess(line string, expectedSignature []byte) error {
	var resp struct {
		Success        bool   `json:"success"`
		Authentication string `json:"authentication"`
		ErrorCode      int    `json:"error_code"`
		Error          string `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return newDriverError("reql: malformed handshake response: %s", err)
	}
	if !resp.Success {
		if resp.ErrorCode >= 10 && resp.ErrorCode <= 20 {
			return newAuthError(resp.ErrorCode, "%s", resp.Error)
		}
		return newDriverError("%s", resp.Error)
	}

	fields := parseSCRAMFields(resp.Authentication)
	v, err := base64.StdEncoding.DecodeString(fields["v"])
	if err != nil {
		return wrapDriverError(err)
	}

	if subtle.ConstantTimeCompare(v, expectedSignature) != 1 {
		return newAuthError(0, "reql: server signature mismatch")
	}
	return nil
}

// readNullTerminated reads bytes from the connection until a zero byte,
// which is how the handshake frames every message in both directions
// (spec.md §4.3, §6).
func (h *handshake) readNullTerminated() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(h.conn, buf); err != nil {
			return "", wrapDriverError(err)
		}
		if buf[0] == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(buf[0])
	}
}

func randomNonce() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// escapeSCRAMName escapes '=' and ',' in a SCRAM username per RFC 5802.
func escapeSCRAMName(name string) string {
	name = strings.ReplaceAll(name, "=", "=3D")
	name = strings.ReplaceAll(name, ",", "=2C")
	return name
}

// parseSCRAMFields parses a comma-separated "k=v" SCRAM string.
func parseSCRAMFields(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			out[kv[0]] = kv[1]
		}
	}
	return out
}

func hmacSum(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

func sha256Sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
