package access

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// TokenVerifier verifies a single pre-shared token. This is the simplest
// way to protect a deployed widget backend: the host is configured with
// the same token and sends it as bearer token with every request.
type TokenVerifier struct {
	token string
	auth  Authorization
}

// NewTokenVerifier creates a verifier for the given pre-shared token.
// Verified requests carry an authorization with the given roles.
func NewTokenVerifier(token string, roles ...string) *TokenVerifier {
	if len(token) == 0 {
		panic("token is missing")
	}
	return &TokenVerifier{
		token: token,
		auth:  Authorization{Roles: roles},
	}
}

// Verify compares the token in constant time
func (v *TokenVerifier) Verify(token string) (*Authorization, error) {
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return nil, errors.New("token mismatch")
	}
	auth := v.auth
	return &auth, nil
}

// JWTVerifier verifies HS256-signed JSON web tokens. Roles are taken from
// the "roles" claim, the subject is stored as the "identity" property.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with the given secret
func NewJWTVerifier(secret []byte) *JWTVerifier {
	if len(secret) == 0 {
		panic("secret is missing")
	}
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token
func (v *JWTVerifier) Verify(tokenString string) (*Authorization, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims")
	}

	auth := &Authorization{}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, role := range roles {
			if s, ok := role.(string); ok {
				auth.Roles = append(auth.Roles, s)
			}
		}
	}
	if sub, ok := claims["sub"].(string); ok && len(sub) > 0 {
		auth.Properties = map[string]string{"identity": sub}
	}
	return auth, nil
}
