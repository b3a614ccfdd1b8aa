// Package auth implements the credential ports: JWT bearer tokens, bcrypt
// password hashes and token denylists backed by Redis or process memory.
package auth

import (
	"errors"
	"fmt"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

// tokenClaims is the JWT payload. The subject carries the user id.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer requires a secret of at least 32 bytes and a positive ttl.
func NewJWTIssuer(secret string, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, errs.NewValueIsOutOfRangeError("jwt secret length", len(secret), minSecretLength, "unbounded")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("jwt ttl", fmt.Errorf("%s is not positive", ttl))
	}
	return &JWTIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for subject carrying its current role.
func (i *JWTIssuer) Issue(subject kernel.UUID, role user.Role) (ports.Token, error) {
	if err := errors.Join(subject.Validate(), role.Validate()); err != nil {
		return ports.Token{}, err
	}

	now := i.now()
	expiresAt := now.Add(i.ttl).Truncate(time.Second)
	claims := tokenClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return ports.Token{}, fmt.Errorf("sign token: %w", err)
	}

	return ports.Token{
		Value: signed,
		Claims: ports.Claims{
			TokenID:   claims.ID,
			Subject:   subject,
			Role:      role,
			ExpiresAt: expiresAt,
		},
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, algorithm, issuer and expiry.
func (i *JWTIssuer) Verify(token string) (ports.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.Claims{}, errs.NewUnauthenticatedErrorWithCause("token expired", err)
		}
		return ports.Claims{}, errs.NewUnauthenticatedErrorWithCause("invalid token", err)
	}
	if !parsed.Valid {
		return ports.Claims{}, errs.NewUnauthenticatedError("invalid token")
	}

	subject, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Claims{}, errs.NewUnauthenticatedErrorWithCause("invalid token subject", err)
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return ports.Claims{}, errs.NewUnauthenticatedErrorWithCause("invalid token role", err)
	}
	if claims.ID == "" {
		return ports.Claims{}, errs.NewUnauthenticatedError("token has no id")
	}

	return ports.Claims{
		TokenID:   claims.ID,
		Subject:   subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
