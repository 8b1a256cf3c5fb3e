package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	ext "mtreview/config"
)

func authTestRouter() (*gin.Engine, *Principal) {
	gin.SetMode(gin.TestMode)
	var seen Principal
	r := gin.New()
	r.GET("/probe", Auth(), func(c *gin.Context) {
		seen = PrincipalFrom(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestAuth(t *testing.T) {
	ext.ExtConfig.JWT.Secret = "test-secret"
	ext.ExtConfig.JWT.Timeout = 60

	workerID := primitive.NewObjectID()

	t.Run("valid token", func(t *testing.T) {
		token, err := SignToken(workerID, "maria", false, true)
		require.NoError(t, err)

		r, seen := authTestRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workerID, seen.ID)
		assert.Equal(t, "maria", seen.Username)
		assert.False(t, seen.IsAdmin)
		assert.True(t, seen.IsEvaluator)
	})
	t.Run("missing header", func(t *testing.T) {
		r, _ := authTestRouter()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("garbage token", func(t *testing.T) {
		r, _ := authTestRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignToken(workerID, "maria", false, false)
		require.NoError(t, err)
		ext.ExtConfig.JWT.Secret = "rotated-secret"
		defer func() { ext.ExtConfig.JWT.Secret = "test-secret" }()

		r, _ := authTestRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPrincipalFromWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, Principal{}, PrincipalFrom(c))
}
