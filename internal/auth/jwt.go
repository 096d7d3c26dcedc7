package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// ExtractBearer strips the "Bearer " prefix from an Authorization header
// value. The match is exact and case-sensitive; a value without the prefix is
// returned unchanged.
func ExtractBearer(authorization string) string {
	if strings.HasPrefix(authorization, bearerPrefix) {
		return authorization[len(bearerPrefix):]
	}
	return authorization
}

// Codec signs and verifies HMAC tokens with a pre-shared secret. The signing
// method is pinned at construction so tokens carrying a different alg header
// fail verification.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec builds a codec for the given secret and HMAC algorithm name
// (HS256, HS384 or HS512). An unknown name falls back to HS256; config
// validation rejects it earlier in normal operation.
func NewCodec(secret, algorithm string) *Codec {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &Codec{secret: []byte(secret), method: method}
}

// Sign issues a token for the given subject, expiring after ttl.
func (c *Codec) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// DecodeClaims verifies and decodes a token, returning an empty claims map on
// any failure. It never reports an error; callers that need to distinguish
// failure modes use VerifyToken instead.
func (c *Codec) DecodeClaims(tokenString string) jwt.MapClaims {
	claims, err := c.parse(tokenString)
	if err != nil {
		return jwt.MapClaims{}
	}
	return claims
}

// VerifyToken decodes a token and classifies failures into the package error
// taxonomy: ErrTokenExpired for a passed exp claim, ErrTokenMalformed for
// structure or signature violations, ErrTokenInvalid otherwise.
func (c *Codec) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := c.parse(tokenString)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenMalformed
	default:
		return nil, ErrTokenInvalid
	}
}

func (c *Codec) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
