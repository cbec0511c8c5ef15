package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/database"
	"github.com/secopshq/shiftboard/pkg/models"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))
var jwtAlgorithm = jwt.SigningMethodHS256

// Claims carries the identity every permission check reads.
type Claims struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	Team   string      `json:"team"`
	jwt.RegisteredClaims
}

// User rebuilds the domain identity from token claims.
func (c *Claims) User() models.User {
	return models.User{ID: c.UserID, Name: c.Name, Role: c.Role, Team: c.Team}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a user.
func CreateToken(user models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		Team:   user.Team,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(jwtSecret)
}

// VerifyToken verifies a JWT token.
func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// CanEditTeam is the single write-permission rule: ADMIN edits any team,
// a LEAD only their own, a MEMBER never. A convenience gate, not a
// security boundary.
func CanEditTeam(user models.User, teamKey string) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleLead:
		return user.Team == teamKey
	}
	return false
}

// EnsureUsersExist seeds the user table from the roster config when it
// is empty. Seed passwords are hashed and then discarded.
func EnsureUsersExist(db *gorm.DB, roster *config.Provider) error {
	var count int64
	db.Model(&database.BoardUser{}).Count(&count)
	if count > 0 {
		return nil
	}

	for _, seed := range roster.Users() {
		hash, err := HashPassword(seed.Password)
		if err != nil {
			return err
		}
		user := database.BoardUser{
			Username:     seed.ID,
			Name:         seed.Name,
			Role:         string(seed.Role),
			Team:         seed.Team,
			PasswordHash: hash,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// GenerateHMACKey creates a signed integration key using HMAC-SHA256.
func GenerateHMACKey(name string) string {
	secret := os.Getenv("API_MASTER_SECRET")
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	signature := hex.EncodeToString(h.Sum(nil))
	return name + "." + signature
}

// VerifyHMACKey validates an HMAC-signed integration key.
func VerifyHMACKey(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("invalid key format")
	}

	name := parts[0]
	providedSignature := parts[1]

	secret := os.Getenv("API_MASTER_SECRET")
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	// Constant-time comparison to prevent timing attacks.
	if !hmac.Equal([]byte(providedSignature), []byte(expectedSignature)) {
		return "", errors.New("invalid signature")
	}

	return name, nil
}
