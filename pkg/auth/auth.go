package auth

import (
	"net/http"
	"strings"
	"time"

	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userContextKey = "auth_user"

// Claims carries the identity minted by the hosted auth subsystem.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type UserData struct {
	ID    uuid.UUID
	Email string
}

type TokenAuth struct {
	secret    string
	debugMode bool
}

func NewTokenAuth(secret string, debugMode bool) *TokenAuth {
	return &TokenAuth{
		secret:    secret,
		debugMode: debugMode,
	}
}

// GenerateToken is used by tests and local tooling; production tokens come
// from the auth provider signed with the same shared secret.
func (t *TokenAuth) GenerateToken(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.secret))
}

func (t *TokenAuth) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		// Debug mode skips expiry validation so long-lived local tokens
		// keep working during development.
		var opts []jwt.ParserOption
		if t.debugMode {
			opts = append(opts, jwt.WithoutClaimsValidation())
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(t.secret), nil
		}, opts...)
		if err != nil || !token.Valid {
			log.Info("invalid auth token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			log.Info("invalid token claims")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			log.Info("token user_id is not a uuid", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		c.Set(userContextKey, &UserData{ID: userID, Email: claims.Email})
		c.Next()
	}
}

// CurrentUser extracts the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*UserData, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*UserData)
	return user, ok
}
