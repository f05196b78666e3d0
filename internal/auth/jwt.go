package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultIssuer        = "user-service"
	DefaultExpireMinutes = 30
)

// JWTManager signs and verifies HMAC tokens carrying exp, iat, iss and jti
// on top of the caller's payload.
type JWTManager struct {
	secret        []byte
	method        jwt.SigningMethod
	issuer        string
	expireMinutes int
	now           func() time.Time
}

func NewJWTManager(secret, algorithm, issuer string, expireMinutes int) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if expireMinutes == 0 {
		expireMinutes = DefaultExpireMinutes
	}
	return &JWTManager{
		secret:        []byte(secret),
		method:        method,
		issuer:        issuer,
		expireMinutes: expireMinutes,
		now:           time.Now,
	}, nil
}

// ExpireMinutes is the lifetime used when GenerateToken gets 0.
func (m *JWTManager) ExpireMinutes() int {
	return m.expireMinutes
}

// GenerateToken signs payload. expireMinutes of exactly 0 falls back to the
// configured default; a negative value yields a token that is already expired.
func (m *JWTManager) GenerateToken(payload map[string]any, expireMinutes int) (string, error) {
	if expireMinutes == 0 {
		expireMinutes = m.expireMinutes
	}
	now := m.now()

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(time.Duration(expireMinutes) * time.Minute).Unix()
	claims["iss"] = m.issuer
	if _, ok := claims["jti"]; !ok {
		claims["jti"] = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the decoded payload. Expiry maps to ErrTokenExpired,
// every other failure to ErrTokenInvalid.
func (m *JWTManager) VerifyToken(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired.WithCause(err)
		}
		return nil, internal.ErrTokenInvalid.WithCause(err)
	}
	return claims, nil
}
