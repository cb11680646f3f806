package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"user-panel/database/model"
	"user-panel/web/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	authed := engine.Group("/")
	authed.Use(TokenAuth())
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       c.GetInt(ContextUserId),
			"username": c.GetString(ContextUsername),
			"level":    c.GetString(ContextLevel),
		})
	})

	admin := engine.Group("/admin")
	admin.Use(TokenAuth(), LevelRequired(model.LevelAdmin, model.LevelSuperUser))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return engine
}

func doRequest(engine *gin.Engine, path string, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestTokenAuth(t *testing.T) {
	assert.NoError(t, token.Init("test-secret"))
	engine := testEngine()

	userToken, err := token.Generate(&model.User{Id: 1, Username: "alice", Level: model.LevelUser})
	assert.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(engine, "/me", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "no token provided")
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(engine, "/me", userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "no token provided")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(engine, "/me", "Bearer not.a.token")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		w := doRequest(engine, "/me", "Bearer "+userToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		assert.Contains(t, w.Body.String(), `"id":1`)
	})
}

func TestLevelRequired(t *testing.T) {
	assert.NoError(t, token.Init("test-secret"))
	engine := testEngine()

	userToken, err := token.Generate(&model.User{Id: 1, Username: "alice", Level: model.LevelUser})
	assert.NoError(t, err)
	adminToken, err := token.Generate(&model.User{Id: 2, Username: "root", Level: model.LevelAdmin})
	assert.NoError(t, err)
	superToken, err := token.Generate(&model.User{Id: 3, Username: "super", Level: model.LevelSuperUser})
	assert.NoError(t, err)

	t.Run("level below allow-list", func(t *testing.T) {
		w := doRequest(engine, "/admin/ping", "Bearer "+userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient permissions")
		assert.Contains(t, w.Body.String(), model.LevelAdmin)
	})

	t.Run("admin allowed", func(t *testing.T) {
		w := doRequest(engine, "/admin/ping", "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("superuser allowed", func(t *testing.T) {
		w := doRequest(engine, "/admin/ping", "Bearer "+superToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
