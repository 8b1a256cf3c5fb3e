package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	ext "mtreview/config"
)

const principalKey = "principal"

// Claims is the token payload issued by the identity service.
type Claims struct {
	WorkerID    string `json:"wid"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"isAdmin"`
	IsEvaluator bool   `json:"isEvaluator"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller attached to the gin context.
type Principal struct {
	ID          primitive.ObjectID
	Username    string
	IsAdmin     bool
	IsEvaluator bool
}

func secret() []byte {
	return []byte(ext.ExtConfig.JWT.Secret)
}

// SignToken mints a token for the given worker. Used by tests and by
// operators provisioning service accounts.
func SignToken(workerID primitive.ObjectID, username string, isAdmin, isEvaluator bool) (string, error) {
	now := time.Now()
	timeout := time.Duration(ext.ExtConfig.JWT.Timeout) * time.Second
	if timeout <= 0 {
		timeout = time.Hour
	}
	claims := Claims{
		WorkerID:    workerID.Hex(),
		Username:    username,
		IsAdmin:     isAdmin,
		IsEvaluator: isEvaluator,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeout)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

func parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth rejects requests without a valid bearer token and stores the
// Principal for handlers.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "missing bearer token"})
			return
		}
		claims, err := parseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "invalid token"})
			return
		}
		workerID, err := primitive.ObjectIDFromHex(claims.WorkerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "invalid token subject"})
			return
		}
		c.Set(principalKey, Principal{
			ID:          workerID,
			Username:    claims.Username,
			IsAdmin:     claims.IsAdmin,
			IsEvaluator: claims.IsEvaluator,
		})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller; the zero Principal when
// the route skipped Auth.
func PrincipalFrom(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}
