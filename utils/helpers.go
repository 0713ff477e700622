package utils

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/tcm-study-api/auth"
)

// GetClaims returns the custom claims of a validated bearer token, if the
// request carried one.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	validated, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || validated == nil {
		return nil, false
	}
	claims, ok := validated.CustomClaims.(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
