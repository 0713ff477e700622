package middleware

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/tcm-study-api/logger"
	"github.com/andrewpaige1/tcm-study-api/models"
	"github.com/andrewpaige1/tcm-study-api/utils"
)

type contextKey string

const userKey contextKey = "user"

// Users loads the account behind a validated token.
type Users struct {
	DB  *gorm.DB
	Log *logger.Logger
}

// RequireUser ensures the token's user still exists and attaches it to the
// request context.
func (u *Users) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := utils.GetClaims(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var user models.User
		err := u.DB.WithContext(r.Context()).First(&user, claims.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if err != nil {
			u.Log.Error("RequireUser: user lookup failed", "userID", claims.UserID, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin is RequireUser plus a role check. The stored role is checked,
// so a demoted admin loses access before their token expires.
func (u *Users) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return u.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFrom(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			u.Log.Warn("RequireAdmin: forbidden", "path", r.URL.Path)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
