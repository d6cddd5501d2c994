package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenLifetime = 24 * time.Hour

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	TokenLifetime time.Duration
}

type PlayerClaims struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerId int64, username string, lifetime time.Duration) *PlayerClaims {
	now := time.Now()
	return &PlayerClaims{
		PlayerId: playerId,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

func loadKey(name string) ([]byte, error) {
	if key, ok := os.LookupEnv(name); ok {
		return []byte(key), nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return data, nil
}

func NewJWT() (*JWT, error) {
	privatePEM, err := loadKey("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT private key: %w", err)
	}

	publicPEM, err := loadKey("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}

	lifetime := defaultTokenLifetime
	if s, ok := os.LookupEnv("JWT_TOKEN_LIFETIME"); ok {
		lifetime, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TOKEN_LIFETIME: %w", err)
		}
	}

	return NewJWTFromKeys(privateKey, publicKey, lifetime), nil
}

func NewJWTFromKeys(private *rsa.PrivateKey, public *rsa.PublicKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    private,
		publicKey:     public,
		signingMethod: jwt.SigningMethodRS256,
		TokenLifetime: lifetime,
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParsePlayerClaims(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&PlayerClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
