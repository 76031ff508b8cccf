package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gamestore/internal/domain"
)

// ErrNoSession covers every way a token can fail to yield a session: absent,
// malformed, tampered, or expired. Callers must not distinguish between them.
var ErrNoSession = errors.New("no session")

// Session is the decoded identity a request acts as.
type Session struct {
	UserID    int64
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the minimal projection embedded into a token at login.
type Identity struct {
	ID    int64
	Email string
	Name  string
	Role  domain.Role
}

// TokenCodec signs and verifies session tokens. Narrow on purpose so the signing
// strategy can be swapped without touching the guard or handlers.
type TokenCodec interface {
	Issue(identity Identity) (string, error)
	Decode(raw string) (Session, error)
}

type claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTCodec issues stateless HS256 tokens. There is no server-side session store:
// logout clears the client cookie but copies issued earlier stay valid until they
// expire.
type JWTCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTCodec(secret, issuer string, ttl time.Duration) (*JWTCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &JWTCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (c *JWTCodec) Issue(identity Identity) (string, error) {
	now := c.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.ID),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, ErrNoSession
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		// bad signature, garbage, and expiry all read as "no session"
		return Session{}, ErrNoSession
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Session{}, ErrNoSession
	}

	var userID int64
	if _, err := fmt.Sscanf(cl.Subject, "%d", &userID); err != nil || userID <= 0 {
		return Session{}, ErrNoSession
	}

	// a missing or unknown role claim never elevates
	role := domain.Role(cl.Role)
	if !role.Valid() {
		role = domain.RoleCustomer
	}

	session := Session{
		UserID: userID,
		Role:   role,
	}
	if cl.IssuedAt != nil {
		session.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		session.ExpiresAt = cl.ExpiresAt.Time
	}
	return session, nil
}
