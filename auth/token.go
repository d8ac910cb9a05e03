package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffdir/staffdir"
)

// Claims is the JWT payload issued on a successful login.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses the access tokens handed out by the gate.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer signing with HMAC-SHA256.
func NewTokenIssuer(secret string, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			"token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs a token for the given user identity.
func (t *TokenIssuer) Issue(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", staffdir.NewErrorWithCause(staffdir.ErrorTypeInvalidCredentials,
			"failed to sign token", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, staffdir.NewError(staffdir.ErrorTypeInvalidCredentials,
				"unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeInvalidCredentials,
			"invalid token", err)
	}
	return claims, nil
}
