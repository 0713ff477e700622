package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/andrewpaige1/tcm-study-api/auth"
	"github.com/andrewpaige1/tcm-study-api/middleware"
	"github.com/andrewpaige1/tcm-study-api/models"
)

const minPasswordLength = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *credentials) normalize() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return badRequest("A valid email is required")
	}
	if len(c.Password) < minPasswordLength {
		return badRequest("Password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Register creates a regular account. Admin rights are only ever granted by
// another admin.
func (db *DBHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		db.writeError(w, r, err)
		return
	}
	if err := req.normalize(); err != nil {
		db.writeError(w, r, err)
		return
	}

	var count int64
	if err := db.WithContext(r.Context()).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		db.writeError(w, r, err)
		return
	}
	if count > 0 {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	user := models.User{Email: req.Email, PasswordHash: hash, Role: models.RoleUser}
	if err := db.WithContext(r.Context()).Create(&user).Error; err != nil {
		db.writeError(w, r, err)
		return
	}

	token, err := db.Tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	db.Log.Info("user registered", "userID", user.ID)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (db *DBHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		db.writeError(w, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := db.WithContext(r.Context()).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, auth.RejectPassword(req.Password).Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		db.Log.Warn("login failed", "userID", user.ID)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := db.Tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// SetUserRole lets an admin promote or demote another account.
func (db *DBHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		db.writeError(w, r, err)
		return
	}
	if !models.ValidRole(req.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	var user models.User
	err = db.WithContext(r.Context()).First(&user, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	if err := db.WithContext(r.Context()).Model(&user).Update("role", req.Role).Error; err != nil {
		db.writeError(w, r, err)
		return
	}

	admin, _ := middleware.UserFrom(r.Context())
	if admin != nil {
		db.Log.Info("user role changed", "userID", user.ID, "role", req.Role, "by", admin.ID)
	}
	writeJSON(w, http.StatusOK, user)
}
