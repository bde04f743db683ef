package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 3 * time.Hour

// Claims represents JWT claims for API access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email"`
	UserName string   `json:"username"`
	Roles    []string `json:"role,omitempty"`
}

// Options configures the JWT issuer.
type Options struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

var _ model.TokenIssuer = (*JWT)(nil)

// JWT implements TokenIssuer backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT issuer.
func NewJWT(opts Options) *JWT {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{
		secretKey: []byte(opts.Secret),
		issuer:    opts.Issuer,
		audience:  opts.Audience,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue creates a signed access token for user carrying roles.
func (j *JWT) Issue(user model.User, roles []string) (string, error) {
	if user.ID == uuid.Nil {
		return "", errors.New("user id is empty")
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Email:    user.Email,
		UserName: user.UserName,
		Roles:    roles,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Verify validates signature, issuer, audience and expiry and returns the embedded identity.
// Every failure wraps model.ErrInvalidToken.
func (j *JWT) Verify(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Claims{}, model.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: bad subject", model.ErrInvalidToken)
	}

	return model.Claims{
		UserID:    userID,
		Email:     claims.Email,
		UserName:  claims.UserName,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
