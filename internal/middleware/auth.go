package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"errand-service/internal/repositories"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// NewToken issues a signed token for the user, valid for 24 hours.
func NewToken(secret []byte, userID int) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies a token and returns the embedded user id.
func ParseToken(secret []byte, tokenString string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, errors.New("invalid token")
	}
	return claims.UserID, nil
}

// Auth validates the Authorization header and rejects deactivated accounts.
func Auth(secret []byte, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFromHeader(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil || user.Deactivated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "account unavailable"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is present but
// lets anonymous requests through. Public listings use it to resolve the
// "me" owner filter.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := userIDFromHeader(c, secret); err == nil {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func userIDFromHeader(c *gin.Context, secret []byte) (int, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, errors.New("invalid authorization header")
	}
	return ParseToken(secret, parts[1])
}
