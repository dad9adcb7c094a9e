package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	intconfig "tripmate/internal/config"
	"tripmate/internal/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("super-secret-key-change-me")

// SetJWTSecret installs the signing key from the environment. Must be called
// before the router starts serving.
func SetJWTSecret(secret string) {
	if s := strings.TrimSpace(secret); s != "" {
		jwtSecret = []byte(s)
	}
}

// AuthUser is the user payload returned by login/register.
type AuthUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	email := strings.ToLower(utils.TrimOrEmpty(req.Email))

	err := intconfig.DB.QueryRow(`
        SELECT id, full_name, email, password_hash
        FROM users
        WHERE email = ?
    `, email).Scan(&user.ID, &user.FullName, &user.Email, &passwordHash)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email atau password salah"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal query user: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email atau password salah"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.FullName,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membuat token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	email := strings.ToLower(utils.TrimOrEmpty(req.Email))

	var exists int
	err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal cek user: " + err.Error()})
		return
	}
	if exists > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email sudah terdaftar"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal meng-hash password"})
		return
	}

	res, err := intconfig.DB.Exec(`
        INSERT INTO users (full_name, email, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, NOW(), NOW())
    `, utils.NormalizeSpace(req.FullName), email, string(hash))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan user: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "registrasi berhasil",
		"user": AuthUser{
			ID:       id,
			FullName: utils.NormalizeSpace(req.FullName),
			Email:    email,
		},
	})
}
