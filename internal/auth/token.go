package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Token verification failure kinds.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature mismatch")
	ErrExpired      = errors.New("token expired")
	ErrBadClaim     = errors.New("token claim mismatch")
)

// SubjectData is the account snapshot embedded in a token. It is a copy
// taken at issuance; authorization always re-reads the account row, so
// stale role/directorate values here are harmless.
type SubjectData struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	Directorate *string     `json:"directorate"`
}

// Claims is the signed, time-bounded claim set.
type Claims struct {
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
	Issuer    string      `json:"iss"`
	Audience  string      `json:"aud"`
	Data      SubjectData `json:"data"`
}

// TokenCodec signs and verifies claim sets. Implementations are
// interchangeable; the Authenticator and policy layers never depend on
// the signing primitive.
type TokenCodec interface {
	Sign(claims Claims) (string, error)
	Verify(token string) (*Claims, error)
}

// TokenManager issues tokens through a codec and stamps the standard
// time and party claims.
type TokenManager struct {
	codec    TokenCodec
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenManager builds a manager around the given codec.
func NewTokenManager(codec TokenCodec, issuer, audience string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{codec: codec, issuer: issuer, audience: audience, ttl: ttl, now: time.Now}
}

// Issue signs a token for the subject and returns it with its expiry.
func (tm *TokenManager) Issue(data SubjectData) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := Claims{
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
		Issuer:    tm.issuer,
		Audience:  tm.audience,
		Data:      data,
	}
	token, err := tm.codec.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify validates a token and returns its claims.
func (tm *TokenManager) Verify(token string) (*Claims, error) {
	return tm.codec.Verify(token)
}

type jwsHeader struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

// HMACCodec is the built-in HS256 JWS implementation: base64url-encoded
// header and payload joined by dots, signed with HMAC-SHA256 over
// "header.payload" using a shared secret. It matches the wire format
// the legacy clients already hold tokens in.
type HMACCodec struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewHMACCodec builds the codec with the shared secret and the issuer
// and audience values Verify enforces.
func NewHMACCodec(secret, issuer, audience string) *HMACCodec {
	return &HMACCodec{secret: []byte(secret), issuer: issuer, audience: audience, now: time.Now}
}

// Sign serializes the claims and emits header.payload.signature.
func (c *HMACCodec) Sign(claims Claims) (string, error) {
	headerJSON, err := json.Marshal(jwsHeader{Typ: "JWT", Alg: "HS256"})
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	encoding := base64.RawURLEncoding
	signingInput := encoding.EncodeToString(headerJSON) + "." + encoding.EncodeToString(payloadJSON)
	signature := c.sign(signingInput)
	return signingInput + "." + encoding.EncodeToString(signature), nil
}

// Verify checks structure, signature, expiry, and party claims, in that
// order. The signature compare is constant time. Expiry is strict
// server clock, no leeway.
func (c *HMACCodec) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	encoding := base64.RawURLEncoding
	headerJSON, err := encoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrMalformed
	}
	var header jwsHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, ErrMalformed
	}

	payloadJSON, err := encoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformed
	}

	providedSig, err := encoding.DecodeString(parts[2])
	if err != nil {
		return nil, ErrMalformed
	}
	expectedSig := c.sign(parts[0] + "." + parts[1])
	if !hmac.Equal(expectedSig, providedSig) {
		return nil, ErrBadSignature
	}

	var claims Claims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, ErrMalformed
	}

	if claims.ExpiresAt != 0 && claims.ExpiresAt < c.now().Unix() {
		return nil, ErrExpired
	}
	if claims.Issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrBadClaim
	}
	if claims.Audience != "" && claims.Audience != c.audience {
		return nil, ErrBadClaim
	}
	if claims.Data.ID == 0 {
		return nil, ErrMalformed
	}
	return &claims, nil
}

func (c *HMACCodec) sign(input string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}
