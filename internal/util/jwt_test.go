package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateJWTHMAC(t *testing.T) {
	tok := sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("user-1"))

	claims, err := ValidateJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)

	_, err = ValidateJWT(tok, "other")
	assert.Error(t, err)
}

func TestValidateJWTECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	claims, err := ValidateJWT(sign(t, jwt.SigningMethodES256, key, validClaims("user-2")), pemKey)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)
}

func publicPEM(t *testing.T, pub interface{}) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestValidateJWTRSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey := publicPEM(t, &key.PublicKey)

	claims, err := ValidateJWT(sign(t, jwt.SigningMethodRS256, key, validClaims("user-3")), pemKey)
	require.NoError(t, err)
	assert.Equal(t, "user-3", claims.Subject)
}

func TestValidateJWTRejectsHMACSignedWithPublicKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	for name, pemKey := range map[string]string{
		"rsa":   publicPEM(t, &rsaKey.PublicKey),
		"ecdsa": publicPEM(t, &ecKey.PublicKey),
	} {
		t.Run(name, func(t *testing.T) {
			forged := sign(t, jwt.SigningMethodHS256, []byte(pemKey), validClaims("victim"))

			claims, err := ValidateJWT(forged, pemKey)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateJWTRejectsCrossFamily(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, err = ValidateJWT(sign(t, jwt.SigningMethodES256, ecKey, validClaims("user-4")), publicPEM(t, &rsaKey.PublicKey))
	assert.Error(t, err)
}

func TestValidateJWTRejects(t *testing.T) {
	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExp := validClaims("user-1")
	noExp.ExpiresAt = nil

	tests := map[string]string{
		"expired":    sign(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"no expiry":  sign(t, jwt.SigningMethodHS256, []byte("secret"), noExp),
		"no subject": sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("")),
		"garbage":    "not-a-token",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateJWT(tok, "secret")
			assert.Error(t, err)
		})
	}
}
