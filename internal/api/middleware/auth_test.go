package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/crypto"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, *crypto.JWTManager) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	jwtManager, err := crypto.NewJWTManager("test-secret")
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/protected", func(c *gin.Context) {
		operator, ok := GetOperator(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"operator": operator})
	})
	return router, jwtManager
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router, jwtManager := newProtectedRouter(t)

	token, err := jwtManager.CreateToken("operator")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "operator")
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router, _ := newProtectedRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadScheme(t *testing.T) {
	router, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsForeignToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	other, err := crypto.NewJWTManager("other-secret")
	require.NoError(t, err)
	token, err := other.CreateToken("operator")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
