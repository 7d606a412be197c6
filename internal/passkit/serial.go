package passkit

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewSerialNumber returns a new globally unique pass serial: the unix
// millisecond timestamp in base 36 plus a random hex suffix. The suffix
// keeps serials distinct within one millisecond.
func NewSerialNumber() string {
	buf := make([]byte, 5)
	_, _ = rand.Read(buf)
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}

// NewAuthenticationToken returns the random secret embedded in a pass
// that authorizes its device's web-service callbacks. 20 bytes, hex.
func NewAuthenticationToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
