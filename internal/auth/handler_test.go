package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(t *testing.T) (*gin.Engine, *Repo, TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(testDB(t))
	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "eventsort-test", Duration: time.Hour}

	router := gin.New()
	NewHandler(repo, tokens).RegisterRoutes(router.Group("/auth"))
	return router, repo, tokens
}

func TestValidateToken(t *testing.T) {
	router, repo, tokens := authRouter(t)

	oneTime, err := repo.Issue(context.Background(), 42, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/validate-token",
		strings.NewReader(`{"token":"`+oneTime+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID    int64  `json:"user_id"`
		Username  string `json:"username"`
		Message   string `json:"message"`
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.UserID)
	assert.Equal(t, "alice", body.Username)
	assert.Equal(t, "Authentication successful", body.Message)

	claims, err := tokens.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)

	_, err = time.Parse(time.RFC3339, body.ExpiresAt)
	assert.NoError(t, err)
}

func TestValidateTokenQueryParamFallback(t *testing.T) {
	router, repo, _ := authRouter(t)

	oneTime, err := repo.Issue(context.Background(), 42, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/validate-token?token="+oneTime, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateTokenRejectsBadToken(t *testing.T) {
	router, _, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/validate-token",
		strings.NewReader(`{"token":"bogus.token"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired token", body["error"])
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestValidateTokenRequiresToken(t *testing.T) {
	router, _, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/validate-token", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
