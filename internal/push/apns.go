// Package push delivers Wallet update notifications through APNs using
// provider-token (ES256 JWT) authentication. A pass update push carries
// an empty payload; the device reacts by polling the web service.
package push

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Apple rejects provider tokens older than an hour; refresh a bit early.
const tokenLifetime = 50 * time.Minute

type Client struct {
	httpc  *http.Client
	host   string
	topic  string
	teamID string
	keyID  string
	key    *ecdsa.PrivateKey

	mu          sync.Mutex
	token       string
	tokenIssued time.Time
}

// NewClient parses the .p8 signing key and returns a ready pusher. The
// topic is the pass type identifier.
func NewClient(keyPEM []byte, keyID, teamID, topic, host string) (*Client, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("apns: key is not PEM")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("apns: parse key: %w", err)
	}
	ec, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("apns: key is not ECDSA (expected a .p8 provider token key)")
	}
	return &Client{
		httpc:  &http.Client{Timeout: 10 * time.Second},
		host:   strings.TrimSuffix(host, "/"),
		topic:  topic,
		teamID: teamID,
		keyID:  keyID,
		key:    ec,
	}, nil
}

// Push sends the empty-payload update notification to one push token.
// The HTTP status and response body are returned for the audit log.
func (c *Client) Push(ctx context.Context, pushToken string) (int, string, error) {
	bearer, err := c.providerToken()
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+"/3/device/"+pushToken, strings.NewReader("{}"))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("authorization", "bearer "+bearer)
	req.Header.Set("apns-topic", c.topic)
	req.Header.Set("apns-push-type", "alert")
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(body), nil
}

func (c *Client) providerToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if c.token != "" && now.Sub(c.tokenIssued) < tokenLifetime {
		return c.token, nil
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
	})
	tok.Header["kid"] = c.keyID
	signed, err := tok.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("apns: sign provider token: %w", err)
	}
	c.token = signed
	c.tokenIssued = now
	return signed, nil
}
