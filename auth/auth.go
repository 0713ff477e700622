package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 2 * time.Hour

var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims are the custom claims carried by every token.
type Claims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

// Validate is called by the token validator after the signature and
// registered claims check out.
func (c *Claims) Validate(ctx context.Context) error {
	if c.UserID == 0 {
		return errors.New("token has no user id")
	}
	if c.Role == "" {
		return errors.New("token has no role")
	}
	return nil
}

// Issuer signs HS256 tokens.
type Issuer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

func (i Issuer) CreateToken(userID uint, role string) (string, error) {
	if len(i.Secret) == 0 {
		return "", fmt.Errorf("auth: JWT secret key not set")
	}
	now := time.Now()
	if i.Now != nil {
		now = i.Now()
	}
	ttl := i.TTL
	if ttl == 0 {
		ttl = TokenTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"userId": userID,
			"role":   role,
			"sub":    fmt.Sprint(userID),
			"iss":    i.Issuer,
			"aud":    i.Audience,
			"iat":    now.Unix(),
			"exp":    now.Add(ttl).Unix(),
		})

	tokenString, err := token.SignedString(i.Secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken verifies a token outside of the HTTP middleware (CLI, tests).
func (i Issuer) ParseToken(tokenString string) (*Claims, error) {
	var claims struct {
		Claims
		jwt.RegisteredClaims
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return i.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.Issuer),
		jwt.WithAudience(i.Audience),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims.Claims, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// RejectPassword spends the same bcrypt work as CheckPassword and always
// fails. Login runs it for unknown emails so the response time does not
// reveal which emails have accounts.
func RejectPassword(password string) error {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return ErrInvalidCredentials
}
