package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// JWTCodec signs and verifies the same claim set through golang-jwt.
// It exists so deployments can swap the hand-rolled primitive for the
// reviewed library implementation without touching the Authenticator or
// policy layers; tokens from either codec verify under the other.
type JWTCodec struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTCodec builds the library-backed codec.
func NewJWTCodec(secret, issuer, audience string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), issuer: issuer, audience: audience}
}

type jwtPayload struct {
	Data SubjectData `json:"data"`
	jwt.RegisteredClaims
}

// Sign emits an HS256 JWT carrying the claim set.
func (c *JWTCodec) Sign(claims Claims) (string, error) {
	payload := jwtPayload{
		Data: claims.Data,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claims.Issuer,
			Audience:  jwt.ClaimStrings{claims.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(c.secret)
}

// Verify parses and validates the token, mapping library failures onto
// the codec's sentinel errors.
func (c *JWTCodec) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwtPayload{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrBadSignature
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}

	payload, ok := parsed.Claims.(*jwtPayload)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	claims := &Claims{Data: payload.Data}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Unix()
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Unix()
	}
	claims.Issuer = payload.Issuer
	if len(payload.Audience) > 0 {
		claims.Audience = payload.Audience[0]
	}

	if claims.ExpiresAt != 0 && claims.ExpiresAt < time.Now().Unix() {
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
	return claims, nil
}
