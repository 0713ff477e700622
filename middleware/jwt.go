package middleware

import (
	"context"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/tcm-study-api/auth"
	"github.com/andrewpaige1/tcm-study-api/logger"
)

// EnsureValidToken validates bearer tokens issued by auth.Issuer. Requests
// without a token pass through untouched; routes that need a user wrap
// their handler in RequireUser or RequireAdmin.
func EnsureValidToken(iss auth.Issuer, log *logger.Logger) (func(http.Handler) http.Handler, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return iss.Secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		iss.Issuer,
		[]string{iss.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &auth.Claims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("token validation failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}
