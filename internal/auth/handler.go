package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo   *Repo
	Tokens TokenService
}

func NewHandler(repo *Repo, tokens TokenService) *Handler {
	return &Handler{Repo: repo, Tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/validate-token", h.validateToken)
}

type validateTokenReq struct {
	Token string `json:"token"`
}

// validateToken redeems a one-time token from the bot's /review link and
// hands back a session JWT. The frontend calls this once on page load.
func (h *Handler) validateToken(c *gin.Context) {
	var req validateTokenReq
	_ = c.ShouldBindJSON(&req)
	if req.Token == "" {
		// the original frontend passed it as a query parameter
		req.Token = c.Query("token")
	}
	if strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	lt, err := h.Repo.Redeem(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validate failed"})
		return
	}
	if lt == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  "Invalid or expired token",
			"code":   "INVALID_TOKEN",
			"status": http.StatusUnauthorized,
		})
		return
	}

	token, exp, err := h.Tokens.Sign(lt.UserID, lt.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    lt.UserID,
		"username":   lt.Username,
		"message":    "Authentication successful",
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}
