package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrExpired       = errors.New("token expired")
	ErrInvalid       = errors.New("invalid token")
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Subject is the identity a token is issued for.
type Subject struct {
	ID       uint
	Username string
	Role     string
}

type Claims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     Kind   `json:"typ"`
	jwt.RegisteredClaims
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Codec signs and verifies HS256 tokens. Access and refresh tokens share the
// claims shape and are told apart by the typ claim.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, ErrMissingSecret
	}
	c := &Codec{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
	if len(c.refreshSecret) == 0 {
		c.refreshSecret = cfg.AccessSecret
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTTL
	}
	return c, nil
}

func (c *Codec) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

func (c *Codec) Issue(kind Kind, sub Subject) (string, time.Time, error) {
	return c.IssueWithTTL(kind, sub, c.TTL(kind))
}

func (c *Codec) IssueWithTTL(kind Kind, sub Subject, ttl time.Duration) (string, time.Time, error) {
	secret := c.secret(kind)
	if len(secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}

	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		ID:       sub.ID,
		Username: sub.Username,
		Role:     sub.Role,
		Type:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(sub.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

// Verify returns ErrExpired only when the signature checks out and exp has
// passed. Every other failure is ErrInvalid.
func (c *Codec) Verify(token string, kind Kind) (*Claims, error) {
	secret := c.secret(kind)
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	if claims.Type != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalid, kind, claims.Type)
	}
	if claims.ID == 0 || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalid)
	}
	return &claims, nil
}

func (c *Codec) secret(kind Kind) []byte {
	if c == nil {
		return nil
	}
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}
