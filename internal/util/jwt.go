package util

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the Supabase access token claims the API relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var ErrMissingSubject = errors.New("token has no subject")

var (
	hmacMethods  = []string{"HS256", "HS384", "HS512"}
	rsaMethods   = []string{"RS256", "RS384", "RS512"}
	ecdsaMethods = []string{"ES256", "ES384", "ES512"}
)

// ValidateJWT verifies tokenString against keyMaterial. A PEM public key only
// accepts the matching RSA or ECDSA methods; anything else is an HMAC secret.
func ValidateJWT(tokenString, keyMaterial string) (*Claims, error) {
	key, methods, err := verificationKey(keyMaterial)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// verificationKey never hands PEM material to the HMAC branch.
func verificationKey(keyMaterial string) (interface{}, []string, error) {
	block, _ := pem.Decode([]byte(keyMaterial))
	if block == nil {
		return []byte(keyMaterial), hmacMethods, nil
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return k, rsaMethods, nil
	case *ecdsa.PublicKey:
		return k, ecdsaMethods, nil
	default:
		return nil, nil, fmt.Errorf("unsupported public key type %T", pub)
	}
}
