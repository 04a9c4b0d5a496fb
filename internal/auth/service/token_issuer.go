package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devlink/devlink/backend/internal/common/authgate"
	"github.com/devlink/devlink/backend/internal/common/clock"
	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
	"github.com/devlink/devlink/backend/internal/observability/metrics"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
)

// TokenIssuer issues and verifies signed session tokens carrying the user id
// as the subject claim. The signing key is injected once at construction and
// never leaves this type.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clk,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) Issue(userID userdomain.ID) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(userID),
		"exp": now.Add(ti.tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

// Verify is all-or-nothing: a bad signature, malformed token, or elapsed
// expiry all collapse into ErrInvalidToken.
func (ti *TokenIssuer) Verify(tokenString string) (userdomain.ID, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return ti.jwtSecret, nil
		},
		jwt.WithTimeFunc(ti.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return "", commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return "", commonerrors.ErrInvalidToken
	}

	return userdomain.ID(sub), nil
}

// ParseClaims verifies a token against the gate's shared parser, using the
// issuer's secret.
func (ti *TokenIssuer) ParseClaims(tokenString string) (authgate.Claims, error) {
	return authgate.ParseToken(tokenString, ti.jwtSecret)
}
