package authgate

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/devlink/devlink/backend/internal/common/http"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/observability/metrics"
)

// TokenHeader is the request header carrying the session token. A missing
// header and a malformed one are indistinguishable to the caller.
const TokenHeader = "x-auth-token"

type Claims struct {
	UserID string
}

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware rejects requests without a valid token and binds the caller
// identity to the request context. It never touches storage.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := ParseToken(raw, secretBytes)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// WithClaims returns a context carrying the given caller identity. Handlers
// under the middleware never need this; tests do.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.JWTValidationsFailed.Inc()
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, errors.New("missing sub claim")
	}

	return Claims{UserID: sub}, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authorization required", nil, "")
}
